// Package service holds the reservation lifecycle: booking validation,
// create/edit/cancel/cleanup orchestration and the pure filters that
// derive role-specific views from a reservation snapshot.
package service

import (
	"errors"
	"fmt"
)

// Reason explains why the validator rejected a booking.
type Reason string

const (
	InvalidPartySize      Reason = "invalid_party_size"
	OutsideOperatingHours Reason = "outside_operating_hours"
	InThePast             Reason = "in_the_past"
	InsufficientLeadTime  Reason = "insufficient_lead_time"
	MalformedDateTime     Reason = "malformed_date_time"
)

// ValidationError is returned when the requested date, time or party size
// breaks a booking rule.  The caller can always recover by correcting
// the input.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case InvalidPartySize:
		return fmt.Sprintf("party size must be between %d and %d", MinPartySize, MaxPartySize)
	case OutsideOperatingHours:
		return fmt.Sprintf("reservations are accepted from %02d:00 to %02d:00", OpeningHour, ClosingHour)
	case InThePast:
		return "reservation time is in the past"
	case InsufficientLeadTime:
		return fmt.Sprintf("same-day reservations need at least %d minutes notice", LeadTimeMinutes)
	case MalformedDateTime:
		return "date must be YYYY-MM-DD and time HH:MM"
	}
	return "invalid reservation: " + string(e.Reason)
}

var (
	// ErrNotFound is returned when no reservation has the requested id.
	ErrNotFound = errors.New("reservation not found")
	// ErrInvalidState is returned when editing a cancelled reservation.
	ErrInvalidState = errors.New("reservation is cancelled")
)

// PersistenceError wraps an unexpected failure of the store.  It is
// surfaced as is; the lifecycle never retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return "persistence: " + e.Op + ": " + e.Err.Error() }

func (e *PersistenceError) Unwrap() error { return e.Err }

// ReasonOf returns the validation reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason, true
	}
	return "", false
}
