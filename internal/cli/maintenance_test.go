package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

type silent struct{}

func (silent) Notify(context.Context, notify.Event, model.Reservation) {}

type countingCache struct {
	bumps int
	err   error
}

func (c *countingCache) Bump(context.Context) error {
	c.bumps++
	return c.err
}

var now = time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)

func TestCleanupInvalidatesCache(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps after deleting", func(t *testing.T) {
		m := service.NewManager(repository.NewMemoryReservationRepo(), silent{})
		r, err := m.CreateReservation(ctx, "alice", "2026-10-20", "19:00", 2, now)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := m.CancelReservation(ctx, r.ID, model.ActorGuest); err != nil {
			t.Fatal(err)
		}
		cache := &countingCache{}
		n, err := cleanupCancelled(ctx, m, cache)
		if err != nil || n != 1 {
			t.Fatalf("cleanup = %d, %v", n, err)
		}
		if cache.bumps != 1 {
			t.Fatalf("bumps = %d, want 1", cache.bumps)
		}
	})

	t.Run("nothing deleted leaves cache alone", func(t *testing.T) {
		m := service.NewManager(repository.NewMemoryReservationRepo(), silent{})
		if _, err := m.CreateReservation(ctx, "alice", "2026-10-20", "19:00", 2, now); err != nil {
			t.Fatal(err)
		}
		cache := &countingCache{}
		if n, err := cleanupCancelled(ctx, m, cache); err != nil || n != 0 {
			t.Fatalf("cleanup = %d, %v", n, err)
		}
		if cache.bumps != 0 {
			t.Fatalf("bumps = %d, want 0", cache.bumps)
		}
	})

	t.Run("bump failure does not fail cleanup", func(t *testing.T) {
		m := service.NewManager(repository.NewMemoryReservationRepo(), silent{})
		r, _ := m.CreateReservation(ctx, "alice", "2026-10-20", "19:00", 2, now)
		_, _ = m.CancelReservation(ctx, r.ID, model.ActorStaff)
		cache := &countingCache{err: errors.New("redis down")}
		if n, err := cleanupCancelled(ctx, m, cache); err != nil || n != 1 {
			t.Fatalf("cleanup = %d, %v", n, err)
		}
	})
}

func TestCleanupRequiresConfirmation(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"cleanup"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("err = %v, want confirmation error", err)
	}
}
