package utils // package utils provides clock, date and token helpers shared across layers

import (
	"fmt"
	"time"
)

// Layouts used for reservation dates and times.  Both are zero padded so
// that lexicographic order of the strings equals chronological order.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Clock abstracts the current time so that validation and reminders can
// be exercised against a fixed instant in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the wall clock converted to the restaurant's
// location.  A nil Location means time.Local.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }

// ParseDate parses a YYYY-MM-DD string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// ParseTimeOfDay parses an HH:MM string and returns hour and minute.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Combine joins a date and a time of day into an instant in loc.
func Combine(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := ParseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, d.Location()), nil
}

// DateString formats the calendar date of t in t's own location.
func DateString(t time.Time) string { return t.Format(DateLayout) }

// IsToday reports whether date names the calendar day of now.
func IsToday(date string, now time.Time) bool { return date == DateString(now) }

// IsAtLeastMinutesAhead reports whether instant lies n minutes or more
// after now.  The boundary is inclusive.
func IsAtLeastMinutesAhead(instant, now time.Time, n int) bool {
	return !instant.Before(now.Add(time.Duration(n) * time.Minute))
}
