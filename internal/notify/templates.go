package notify

import (
	"fmt"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// Render builds the title and body shown to the recipient of e.
func Render(e Event, r model.Reservation) (title, body string) {
	switch e {
	case GuestCancelledByStaff:
		return "Reservation Cancelled",
			fmt.Sprintf("Your reservation for %s at %s has been cancelled by the restaurant.", r.Date, r.Time)
	case GuestDayBeforeReminder:
		return "Reservation Tomorrow",
			fmt.Sprintf("Reminder: You have a reservation tomorrow at %s for %s.", r.Time, guests(r.PartySize))
	case GuestHourBeforeReminder:
		return "Reservation in 1 Hour",
			fmt.Sprintf("Your reservation is in 1 hour at %s. See you soon!", r.Time)
	case StaffNewReservation:
		return "New Reservation",
			fmt.Sprintf("%s made a reservation for %s at %s (%s)", r.GuestID, r.Date, r.Time, guests(r.PartySize))
	case StaffReservationChanged:
		return "Reservation Changed",
			fmt.Sprintf("%s updated their reservation to %s at %s (%s)", r.GuestID, r.Date, r.Time, guests(r.PartySize))
	case StaffReservationCancelled:
		return "Reservation Cancelled",
			fmt.Sprintf("%s cancelled their reservation for %s at %s (%s)", r.GuestID, r.Date, r.Time, guests(r.PartySize))
	case StaffThirtyMinReminder:
		return "Reservation in 30 Minutes",
			fmt.Sprintf("%s arriving at %s (%s)", r.GuestID, r.Time, guests(r.PartySize))
	case StaffFifteenMinReminder:
		return "Reservation in 15 Minutes",
			fmt.Sprintf("%s arriving soon at %s (%s)", r.GuestID, r.Time, guests(r.PartySize))
	}
	return string(e), fmt.Sprintf("Reservation %d on %s at %s", r.ID, r.Date, r.Time)
}

func guests(n int) string {
	if n == 1 {
		return "1 guest"
	}
	return fmt.Sprintf("%d guests", n)
}
