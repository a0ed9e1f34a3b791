package model

// GuestPreferences is the notification toggle bundle of a guest
// account.  Every flag defaults to true.
//
// Fields:
//  CancellationAlerts  – notify when staff cancels a reservation.
//  DayBeforeReminders  – remind the day before the booking.
//  HourBeforeReminders – remind one hour before the booking.
type GuestPreferences struct {
	CancellationAlerts  bool `json:"cancellation_alerts"`   // guest_preferences.cancellation_alerts
	DayBeforeReminders  bool `json:"day_before_reminders"`  // guest_preferences.day_before_reminders
	HourBeforeReminders bool `json:"hour_before_reminders"` // guest_preferences.hour_before_reminders
}

// StaffPreferences is the single staff-wide notification bundle.
// Every flag defaults to true.
//
// Fields:
//  NewReservationAlerts – notify when a guest books.
//  ChangeAlerts         – notify when a guest edits or cancels.
//  ThirtyMinReminders   – remind 30 minutes before arrival.
//  FifteenMinReminders  – remind 15 minutes before arrival.
type StaffPreferences struct {
	NewReservationAlerts bool `json:"new_reservation_alerts"` // staff_preferences.new_reservation_alerts
	ChangeAlerts         bool `json:"change_alerts"`          // staff_preferences.change_alerts
	ThirtyMinReminders   bool `json:"thirty_min_reminders"`   // staff_preferences.thirty_min_reminders
	FifteenMinReminders  bool `json:"fifteen_min_reminders"`  // staff_preferences.fifteen_min_reminders
}

// DefaultGuestPreferences returns the bundle created on first access.
func DefaultGuestPreferences() GuestPreferences {
	return GuestPreferences{CancellationAlerts: true, DayBeforeReminders: true, HourBeforeReminders: true}
}

// DefaultStaffPreferences returns the bundle created on first access.
func DefaultStaffPreferences() StaffPreferences {
	return StaffPreferences{NewReservationAlerts: true, ChangeAlerts: true, ThirtyMinReminders: true, FifteenMinReminders: true}
}
