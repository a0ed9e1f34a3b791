package service

import (
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// Booking rules.
const (
	MinPartySize    = 1
	MaxPartySize    = 20
	OpeningHour     = 11 // first bookable hour, inclusive
	ClosingHour     = 22 // exclusive
	LeadTimeMinutes = 60 // minimum notice for same-day bookings
)

// Validate checks a requested booking against the restaurant rules as of
// now.  Dates and times are interpreted in now's location.  It returns
// nil or a *ValidationError and never reads the clock itself.
func Validate(date, clock string, partySize int, now time.Time) error {
	if partySize < MinPartySize || partySize > MaxPartySize {
		return &ValidationError{Reason: InvalidPartySize}
	}
	hour, _, err := utils.ParseTimeOfDay(clock)
	if err != nil {
		return &ValidationError{Reason: MalformedDateTime}
	}
	day, err := utils.ParseDate(date, now.Location())
	if err != nil {
		return &ValidationError{Reason: MalformedDateTime}
	}

	// A past day is rejected whatever the time of day.
	today := utils.DateString(now)
	ds := utils.DateString(day)
	if ds < today {
		return &ValidationError{Reason: InThePast}
	}
	if hour < OpeningHour || hour >= ClosingHour {
		return &ValidationError{Reason: OutsideOperatingHours}
	}
	if ds > today {
		return nil
	}

	candidate, err := utils.Combine(date, clock, now.Location())
	if err != nil {
		return &ValidationError{Reason: MalformedDateTime}
	}
	if candidate.Before(now) {
		return &ValidationError{Reason: InThePast}
	}
	if !utils.IsAtLeastMinutesAhead(candidate, now, LeadTimeMinutes) {
		return &ValidationError{Reason: InsufficientLeadTime}
	}
	return nil
}
