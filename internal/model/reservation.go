package model

import "time"

// Status is the lifecycle state of a reservation.  Values match the
// ENUM stored in the reservations.status column.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusPending   Status = "PENDING"
	StatusCancelled Status = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further mutation is allowed.  Only
// CANCELLED is terminal; a cancelled row may still be physically
// deleted during cleanup.
func (s Status) Terminal() bool { return s == StatusCancelled }

// Reservation records a guest's booked table for a date, a time of day
// and a party size.
//
// Fields:
//  ID        – primary key identifier, assigned by the store.
//  GuestID   – username of the guest account that owns the booking.
//  Date      – calendar date formatted YYYY-MM-DD, no timezone.
//  Time      – time of day formatted HH:MM (24-hour), no timezone.
//  PartySize – number of guests, 1 to 20.
//  Status    – CONFIRMED, PENDING or CANCELLED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
	ID        uint64    `json:"id"`         // reservations.id
	GuestID   string    `json:"guest_id"`   // reservations.guest_username
	Date      string    `json:"date"`       // reservations.res_date
	Time      string    `json:"time"`       // reservations.res_time
	PartySize int       `json:"party_size"` // reservations.party_size
	Status    Status    `json:"status"`     // reservations.status
	CreatedAt time.Time `json:"created_at"` // reservations.created_at
	UpdatedAt time.Time `json:"updated_at"` // reservations.updated_at
}

// SlotKey identifies the booked date and time.  Two versions of the
// same reservation with different slots yield different keys.
func (r Reservation) SlotKey() string { return r.Date + "T" + r.Time }
