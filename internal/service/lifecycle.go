package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// ReservationStore is the persistence contract the lifecycle relies on.
// ListByGuest and ListAll return newest date+time first.  Update returns
// the number of matched rows; zero means the id did not exist.  Delete is
// idempotent.  GetByID reports a missing row with repository.ErrNotFound.
type ReservationStore interface {
	Create(ctx context.Context, r model.Reservation) (uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	ListByGuest(ctx context.Context, guestID string) ([]model.Reservation, error)
	ListAll(ctx context.Context) ([]model.Reservation, error)
	Update(ctx context.Context, r model.Reservation) (int64, error)
	Delete(ctx context.Context, id uint64) error
}

// Notifier receives lifecycle events.  It must not fail the caller.
type Notifier interface {
	Notify(ctx context.Context, e notify.Event, r model.Reservation)
}

// Manager owns reservation writes.  It is the only component that
// changes Reservation.Status.
type Manager struct {
	store    ReservationStore
	notifier Notifier
}

// NewManager constructs a Manager.  Both dependencies must be non-nil.
func NewManager(store ReservationStore, notifier Notifier) *Manager {
	if store == nil || notifier == nil {
		panic("nil dependency passed to NewManager")
	}
	return &Manager{store: store, notifier: notifier}
}

// CreateReservation validates and stores a new CONFIRMED reservation for
// guestID, then tells staff about it.  A rejected booking is never
// written.
func (m *Manager) CreateReservation(ctx context.Context, guestID, date, clock string, partySize int, now time.Time) (model.Reservation, error) {
	if err := Validate(date, clock, partySize, now); err != nil {
		return model.Reservation{}, err
	}
	r := model.Reservation{
		GuestID:   guestID,
		Date:      date,
		Time:      clock,
		PartySize: partySize,
		Status:    model.StatusConfirmed,
	}
	id, err := m.store.Create(ctx, r)
	if err != nil {
		return model.Reservation{}, &PersistenceError{Op: "create", Err: err}
	}
	r.ID = id
	log.Printf("reservations: created id=%d guest=%s %s %s party=%d", r.ID, r.GuestID, r.Date, r.Time, r.PartySize)
	m.notifier.Notify(ctx, notify.StaffNewReservation, r)
	return r, nil
}

// EditReservation replaces date, time and party size of reservation id.
// The id, guest and status are carried over from the stored record.
func (m *Manager) EditReservation(ctx context.Context, id uint64, date, clock string, partySize int, now time.Time) (model.Reservation, error) {
	cur, err := m.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if cur.Status.Terminal() {
		return model.Reservation{}, ErrInvalidState
	}
	if err := Validate(date, clock, partySize, now); err != nil {
		return model.Reservation{}, err
	}

	next := cur
	next.Date = date
	next.Time = clock
	next.PartySize = partySize
	n, err := m.store.Update(ctx, next)
	if err != nil {
		return model.Reservation{}, &PersistenceError{Op: "update", Err: err}
	}
	if n == 0 {
		return model.Reservation{}, ErrNotFound
	}
	log.Printf("reservations: edited id=%d %s %s party=%d", next.ID, next.Date, next.Time, next.PartySize)
	m.notifier.Notify(ctx, notify.StaffReservationChanged, next)
	return next, nil
}

// CancelReservation marks reservation id CANCELLED and notifies the other
// side: the guest when staff cancels, staff when the guest cancels.
// Cancelling a cancelled reservation succeeds without side effects.
func (m *Manager) CancelReservation(ctx context.Context, id uint64, actor model.Actor) (model.Reservation, error) {
	cur, err := m.Get(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	if cur.Status == model.StatusCancelled {
		return cur, nil
	}

	cur.Status = model.StatusCancelled
	n, err := m.store.Update(ctx, cur)
	if err != nil {
		return model.Reservation{}, &PersistenceError{Op: "cancel", Err: err}
	}
	if n == 0 {
		return model.Reservation{}, ErrNotFound
	}
	log.Printf("reservations: cancelled id=%d by %s", cur.ID, actor)

	switch actor {
	case model.ActorStaff:
		m.notifier.Notify(ctx, notify.GuestCancelledByStaff, cur)
	case model.ActorGuest:
		m.notifier.Notify(ctx, notify.StaffReservationCancelled, cur)
	}
	return cur, nil
}

// CleanupCancelled deletes every CANCELLED reservation and returns how
// many were removed.  The caller is responsible for asking the user to
// confirm; once invoked the deletion is unconditional.  On a store
// failure the count of rows already deleted is returned with the error.
func (m *Manager) CleanupCancelled(ctx context.Context) (int, error) {
	all, err := m.store.ListAll(ctx)
	if err != nil {
		return 0, &PersistenceError{Op: "list", Err: err}
	}
	deleted := 0
	for _, r := range all {
		if r.Status != model.StatusCancelled {
			continue
		}
		if err := m.store.Delete(ctx, r.ID); err != nil {
			return deleted, &PersistenceError{Op: "delete", Err: err}
		}
		deleted++
	}
	if deleted > 0 {
		log.Printf("reservations: cleaned up %d cancelled reservation(s)", deleted)
	}
	return deleted, nil
}

// Get loads a single reservation.
func (m *Manager) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	r, err := m.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Reservation{}, ErrNotFound
		}
		return model.Reservation{}, &PersistenceError{Op: "get", Err: err}
	}
	return r, nil
}

// ListForGuest returns the guest's reservations, newest first.
func (m *Manager) ListForGuest(ctx context.Context, guestID string) ([]model.Reservation, error) {
	rs, err := m.store.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, &PersistenceError{Op: "list by guest", Err: err}
	}
	return rs, nil
}

// ListAll returns every reservation, newest first.
func (m *Manager) ListAll(ctx context.Context) ([]model.Reservation, error) {
	rs, err := m.store.ListAll(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return rs, nil
}
