// Package scheduler fires time-based reminder notifications for upcoming
// reservations.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// Reminder pairs a reminder event with how long before the booking it is
// due.
type Reminder struct {
	Event notify.Event
	Lead  time.Duration
}

// DefaultReminders are the four reminders the restaurant sends.
var DefaultReminders = []Reminder{
	{Event: notify.GuestDayBeforeReminder, Lead: 24 * time.Hour},
	{Event: notify.GuestHourBeforeReminder, Lead: time.Hour},
	{Event: notify.StaffThirtyMinReminder, Lead: 30 * time.Minute},
	{Event: notify.StaffFifteenMinReminder, Lead: 15 * time.Minute},
}

// Lister supplies the reservation snapshot scanned on each tick.
type Lister interface {
	ListAll(ctx context.Context) ([]model.Reservation, error)
}

// Notifier receives due reminders.
type Notifier interface {
	Notify(ctx context.Context, e notify.Event, r model.Reservation)
}

// Reminders polls the reservation list and fires each reminder once per
// reservation slot.
type Reminders struct {
	Reservations Lister
	Notifier     Notifier
	Ledger       Ledger
	Clock        utils.Clock
	Interval     time.Duration
	Schedule     []Reminder
}

// Run sweeps immediately and then every Interval until ctx is cancelled.
func (s *Reminders) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	// kick immediately
	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Reminders) tick(ctx context.Context) {
	n, err := s.Sweep(ctx, s.Clock.Now())
	if err != nil {
		log.Printf("reminders: sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("reminders: fired %d reminder(s)", n)
	}
}

// Sweep fires every reminder due at now that has not fired before and
// returns how many it fired.  A reminder is due when the booking lies in
// the future and no further away than the reminder's lead.
func (s *Reminders) Sweep(ctx context.Context, now time.Time) (int, error) {
	all, err := s.Reservations.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	schedule := s.Schedule
	if schedule == nil {
		schedule = DefaultReminders
	}

	fired := 0
	for _, r := range all {
		if r.Status != model.StatusConfirmed {
			continue
		}
		at, err := utils.Combine(r.Date, r.Time, now.Location())
		if err != nil {
			continue
		}
		until := at.Sub(now)
		if until <= 0 {
			continue
		}
		for _, rem := range schedule {
			if until > rem.Lead {
				continue
			}
			first, err := s.Ledger.MarkOnce(ctx, ledgerKey(rem.Event, r), until+time.Hour)
			if err != nil {
				log.Printf("reminders: ledger for reservation %d failed: %v", r.ID, err)
				continue
			}
			if !first {
				continue
			}
			s.Notifier.Notify(ctx, rem.Event, r)
			fired++
		}
	}
	return fired, nil
}

// ledgerKey includes the slot so that moving a booking re-arms its
// reminders.
func ledgerKey(e notify.Event, r model.Reservation) string {
	return fmt.Sprintf("%s:%d:%s", e, r.ID, r.SlotKey())
}
