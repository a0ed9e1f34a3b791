// Package notify turns reservation lifecycle events into role-specific
// messages and hands them to a delivery channel.  Delivery is best effort:
// a disabled preference flag silences an event, and a failed delivery is
// logged and dropped.
package notify

import "github.com/iliyamo/restaurant-reservation/internal/model"

// Event names a lifecycle or reminder occurrence.  Each event has exactly
// one recipient role.
type Event string

const (
	GuestCancelledByStaff     Event = "guest.cancelled_by_staff"
	GuestDayBeforeReminder    Event = "guest.reminder.day_before"
	GuestHourBeforeReminder   Event = "guest.reminder.hour_before"
	StaffNewReservation       Event = "staff.reservation.new"
	StaffReservationChanged   Event = "staff.reservation.changed"
	StaffReservationCancelled Event = "staff.reservation.cancelled"
	StaffThirtyMinReminder    Event = "staff.reminder.thirty_min"
	StaffFifteenMinReminder   Event = "staff.reminder.fifteen_min"
)

// Events lists every known event.
var Events = []Event{
	GuestCancelledByStaff,
	GuestDayBeforeReminder,
	GuestHourBeforeReminder,
	StaffNewReservation,
	StaffReservationChanged,
	StaffReservationCancelled,
	StaffThirtyMinReminder,
	StaffFifteenMinReminder,
}

// Role returns the recipient role of the event, or "" if unknown.
func (e Event) Role() string {
	switch e {
	case GuestCancelledByStaff, GuestDayBeforeReminder, GuestHourBeforeReminder:
		return model.RoleGuest
	case StaffNewReservation, StaffReservationChanged, StaffReservationCancelled,
		StaffThirtyMinReminder, StaffFifteenMinReminder:
		return model.RoleStaff
	}
	return ""
}

// guestEnabled reads the flag that gates a guest event.
func guestEnabled(e Event, p model.GuestPreferences) bool {
	switch e {
	case GuestCancelledByStaff:
		return p.CancellationAlerts
	case GuestDayBeforeReminder:
		return p.DayBeforeReminders
	case GuestHourBeforeReminder:
		return p.HourBeforeReminders
	}
	return false
}

// staffEnabled reads the flag that gates a staff event.  Guest-initiated
// cancellations are a kind of change and share the change flag.
func staffEnabled(e Event, p model.StaffPreferences) bool {
	switch e {
	case StaffNewReservation:
		return p.NewReservationAlerts
	case StaffReservationChanged, StaffReservationCancelled:
		return p.ChangeAlerts
	case StaffThirtyMinReminder:
		return p.ThirtyMinReminders
	case StaffFifteenMinReminder:
		return p.FifteenMinReminders
	}
	return false
}
