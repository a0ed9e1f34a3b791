package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations stored in
// MySQL.  Dates and times are kept as fixed-width strings (CHAR(10) and
// CHAR(5)) so ordering by them is chronological.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, guest_username, res_date, res_time, party_size, status, created_at, updated_at`

// Create inserts a reservation and returns the generated id.  The ID field
// of res is ignored.
func (r *ReservationRepo) Create(ctx context.Context, res model.Reservation) (uint64, error) {
	const q = `INSERT INTO reservations (guest_username, res_date, res_time, party_size, status) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.GuestID, res.Date, res.Time, res.PartySize, string(res.Status))
	if err != nil {
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	return uint64(id), nil
}

// GetByID returns a single reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// ListByGuest returns the guest's reservations, newest date and time first.
func (r *ReservationRepo) ListByGuest(ctx context.Context, guestID string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE guest_username = ?
	      ORDER BY res_date DESC, res_time DESC, id DESC`
	return r.list(ctx, q, guestID)
}

// ListAll returns every reservation, newest date and time first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
	      ORDER BY res_date DESC, res_time DESC, id DESC`
	return r.list(ctx, q)
}

// Update overwrites date, time, party size and status of the row with
// res.ID.  guest_username is never written.  It returns the number of
// matched rows; the DSN sets clientFoundRows so an update that changes
// nothing still reports 1.
func (r *ReservationRepo) Update(ctx context.Context, res model.Reservation) (int64, error) {
	const q = `UPDATE reservations SET res_date = ?, res_time = ?, party_size = ?, status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, res.Date, res.Time, res.PartySize, string(res.Status), res.ID)
	if err != nil {
		return 0, fmt.Errorf("update reservation %d: %w", res.ID, err)
	}
	return result.RowsAffected()
}

// Delete removes the reservation.  Deleting a missing id is not an error.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete reservation %d: %w", id, err)
	}
	return nil
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var res model.Reservation
	var status string
	err := s.Scan(&res.ID, &res.GuestID, &res.Date, &res.Time, &res.PartySize, &status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.Status(status)
	return res, nil
}
