package utils

import (
	"testing"
	"time"
)

func TestCombine(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	got, err := Combine("2026-10-17", "19:30", loc)
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	want := time.Date(2026, 10, 17, 19, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got.Location() != loc {
		t.Fatalf("location = %v, want %v", got.Location(), loc)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{"2026-13-01", "2026-02-30", "17/10/2026", ""} {
		if _, err := ParseDate(s, time.UTC); err == nil {
			t.Errorf("ParseDate(%q) succeeded", s)
		}
	}
	for _, s := range []string{"24:00", "7pm", "12:60", ""} {
		if _, _, err := ParseTimeOfDay(s); err == nil {
			t.Errorf("ParseTimeOfDay(%q) succeeded", s)
		}
	}
}

func TestIsToday(t *testing.T) {
	now := time.Date(2026, 10, 17, 23, 59, 0, 0, time.UTC)
	if !IsToday("2026-10-17", now) {
		t.Fatal("same calendar day not reported as today")
	}
	if IsToday("2026-10-18", now) {
		t.Fatal("next day reported as today")
	}
}

func TestIsAtLeastMinutesAhead(t *testing.T) {
	now := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"exactly sixty", now.Add(60 * time.Minute), true},
		{"fifty nine", now.Add(59 * time.Minute), false},
		{"one second short", now.Add(60*time.Minute - time.Second), false},
		{"past", now.Add(-time.Minute), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAtLeastMinutesAhead(tt.at, now, 60); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSystemClockLocation(t *testing.T) {
	loc := time.FixedZone("X", -5*3600)
	if got := (SystemClock{Location: loc}).Now().Location(); got != loc {
		t.Fatalf("location = %v, want %v", got, loc)
	}
}
