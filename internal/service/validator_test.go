package service

import (
	"testing"
	"time"
)

// 2026-10-17 14:00 UTC
var testNow = time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		clock string
		party int
		want  Reason // "" means accepted
	}{
		{"future evening", "2026-10-20", "19:00", 4, ""},
		{"smallest party", "2026-10-20", "19:00", 1, ""},
		{"largest party", "2026-10-20", "19:00", 20, ""},
		{"party zero", "2026-10-20", "19:00", 0, InvalidPartySize},
		{"party too big", "2026-10-20", "19:00", 21, InvalidPartySize},
		{"opening hour", "2026-10-20", "11:00", 2, ""},
		{"before opening", "2026-10-20", "10:59", 2, OutsideOperatingHours},
		{"last bookable minute", "2026-10-20", "21:59", 2, ""},
		{"closing hour", "2026-10-20", "22:00", 2, OutsideOperatingHours},
		{"yesterday", "2026-10-16", "19:00", 2, InThePast},
		{"earlier today", "2026-10-17", "13:00", 2, InThePast},
		{"today 59 minutes ahead", "2026-10-17", "14:59", 2, InsufficientLeadTime},
		{"today exactly 60 minutes ahead", "2026-10-17", "15:00", 2, ""},
		{"today right now", "2026-10-17", "14:00", 2, InsufficientLeadTime},
		{"tomorrow shortly after now", "2026-10-18", "11:00", 2, ""},
		{"bad date", "2026-13-01", "19:00", 2, MalformedDateTime},
		{"bad time", "2026-10-20", "7pm", 2, MalformedDateTime},
		// rule order: party size, malformed input, past day, hours, lead time
		{"party checked before hours", "2026-10-16", "09:00", 0, InvalidPartySize},
		{"malformed checked before past", "2026-10-16", "9h", 2, MalformedDateTime},
		{"past day before hours", "2026-10-16", "09:00", 2, InThePast},
		{"yesterday late night", "2026-10-16", "23:30", 2, InThePast},
		{"today out of hours", "2026-10-17", "23:00", 2, OutsideOperatingHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.date, tt.clock, tt.party, testNow)
			got, _ := ReasonOf(err)
			if got != tt.want {
				t.Fatalf("Validate(%s %s, %d) = %v, want reason %q", tt.date, tt.clock, tt.party, err, tt.want)
			}
			if tt.want == "" && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestValidatePastDayAnyTime(t *testing.T) {
	for _, clock := range []string{"00:00", "09:00", "10:59", "19:00", "22:00", "23:30", "23:59"} {
		t.Run(clock, func(t *testing.T) {
			got, _ := ReasonOf(Validate("2026-10-16", clock, 2, testNow))
			if got != InThePast {
				t.Fatalf("yesterday %s -> %q, want %q", clock, got, InThePast)
			}
		})
	}
}

func TestValidateUsesLocationOfNow(t *testing.T) {
	// 23:30 UTC on the 17th is already the 18th in UTC+2.
	loc := time.FixedZone("UTC+2", 2*3600)
	now := time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC).In(loc)
	if err := Validate("2026-10-17", "21:00", 2, now); err == nil {
		t.Fatal("booking on the previous local day accepted")
	}
	if err := Validate("2026-10-18", "11:00", 2, now); err != nil {
		t.Fatalf("same-day booking with enough lead rejected: %v", err)
	}
}
