package service

import (
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// Bucket is a date-based display filter.
type Bucket string

const (
	BucketAll      Bucket = "all"
	BucketToday    Bucket = "today"
	BucketUpcoming Bucket = "upcoming"
)

// ParseBucket accepts all, today or upcoming in any case.  The empty
// string selects BucketAll.
func ParseBucket(s string) (Bucket, error) {
	switch b := Bucket(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BucketAll:
		return BucketAll, nil
	case BucketToday, BucketUpcoming:
		return b, nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// ByDateBucket returns the reservations of snapshot that fall in bucket
// relative to today (YYYY-MM-DD).  Order is preserved and snapshot is
// not modified.
func ByDateBucket(snapshot []model.Reservation, bucket Bucket, today string) []model.Reservation {
	switch bucket {
	case BucketToday:
		return keep(snapshot, func(r model.Reservation) bool { return r.Date == today })
	case BucketUpcoming:
		return keep(snapshot, func(r model.Reservation) bool { return r.Date > today })
	}
	return keep(snapshot, func(model.Reservation) bool { return true })
}

// ByGuestSubstring returns the reservations whose guest identifier
// contains query, ignoring case.  An empty query keeps everything.
func ByGuestSubstring(snapshot []model.Reservation, query string) []model.Reservation {
	q := strings.ToLower(query)
	if q == "" {
		return keep(snapshot, func(model.Reservation) bool { return true })
	}
	return keep(snapshot, func(r model.Reservation) bool {
		return strings.Contains(strings.ToLower(r.GuestID), q)
	})
}

// View combines a bucket and a guest search.
type View struct {
	Bucket Bucket
	Query  string
	Today  string
}

// ApplyView runs both filters.  Each is order preserving so the result
// does not depend on which runs first.
func ApplyView(snapshot []model.Reservation, v View) []model.Reservation {
	return ByGuestSubstring(ByDateBucket(snapshot, v.Bucket, v.Today), v.Query)
}

func keep(in []model.Reservation, pred func(model.Reservation) bool) []model.Reservation {
	out := make([]model.Reservation, 0, len(in))
	for _, r := range in {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
