package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// MemoryReservationRepo keeps reservations in a map guarded by a
// read-write mutex.  It satisfies the same contract as ReservationRepo and
// backs the development mode and tests.
type MemoryReservationRepo struct {
	mu     sync.RWMutex
	byID   map[uint64]model.Reservation
	nextID uint64
	now    func() time.Time
}

// NewMemoryReservationRepo returns an empty in-memory store.
func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{byID: make(map[uint64]model.Reservation), now: time.Now}
}

func (m *MemoryReservationRepo) Create(_ context.Context, r model.Reservation) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	ts := m.now().UTC()
	r.CreatedAt, r.UpdatedAt = ts, ts
	m.byID[r.ID] = r
	return r.ID, nil
}

func (m *MemoryReservationRepo) GetByID(_ context.Context, id uint64) (model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return model.Reservation{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryReservationRepo) ListByGuest(_ context.Context, guestID string) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.Reservation{}
	for _, r := range m.byID {
		if r.GuestID == guestID {
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryReservationRepo) ListAll(_ context.Context) ([]model.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Reservation, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, r)
	}
	sortNewestFirst(out)
	return out, nil
}

// Update replaces the mutable fields.  The stored guest and creation time
// are kept whatever the caller passes.
func (m *MemoryReservationRepo) Update(_ context.Context, r model.Reservation) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[r.ID]
	if !ok {
		return 0, nil
	}
	cur.Date = r.Date
	cur.Time = r.Time
	cur.PartySize = r.PartySize
	cur.Status = r.Status
	cur.UpdatedAt = m.now().UTC()
	m.byID[r.ID] = cur
	return 1, nil
}

func (m *MemoryReservationRepo) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

// sortNewestFirst mirrors ORDER BY res_date DESC, res_time DESC, id DESC.
func sortNewestFirst(rs []model.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Date != rs[j].Date {
			return rs[i].Date > rs[j].Date
		}
		if rs[i].Time != rs[j].Time {
			return rs[i].Time > rs[j].Time
		}
		return rs[i].ID > rs[j].ID
	})
}

// MemoryPreferenceRepo keeps preference bundles in memory.
type MemoryPreferenceRepo struct {
	mu     sync.Mutex
	guests map[string]model.GuestPreferences
	staff  *model.StaffPreferences
}

// NewMemoryPreferenceRepo returns an empty in-memory preference store.
func NewMemoryPreferenceRepo() *MemoryPreferenceRepo {
	return &MemoryPreferenceRepo{guests: make(map[string]model.GuestPreferences)}
}

func (m *MemoryPreferenceRepo) GuestPreferences(_ context.Context, guestID string) (model.GuestPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.guests[guestID]
	if !ok {
		p = model.DefaultGuestPreferences()
		m.guests[guestID] = p
	}
	return p, nil
}

func (m *MemoryPreferenceRepo) SaveGuestPreferences(_ context.Context, guestID string, p model.GuestPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guests[guestID] = p
	return nil
}

func (m *MemoryPreferenceRepo) StaffPreferences(_ context.Context) (model.StaffPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staff == nil {
		d := model.DefaultStaffPreferences()
		m.staff = &d
	}
	return *m.staff, nil
}

func (m *MemoryPreferenceRepo) SaveStaffPreferences(_ context.Context, p model.StaffPreferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staff = &p
	return nil
}

func (m *MemoryPreferenceRepo) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guests = make(map[string]model.GuestPreferences)
	m.staff = nil
	return nil
}
