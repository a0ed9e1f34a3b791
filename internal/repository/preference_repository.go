package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// PreferenceRepo persists notification preference bundles: one row per
// guest account in guest_preferences and a single row (id = 1) in
// staff_preferences.  Missing rows are created with defaults on first
// read.
type PreferenceRepo struct {
	db *sql.DB
}

// NewPreferenceRepo returns a new PreferenceRepo bound to the given database.
func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

// GuestPreferences returns the guest's bundle, inserting the defaults when
// the guest has none yet.
func (r *PreferenceRepo) GuestPreferences(ctx context.Context, guestID string) (model.GuestPreferences, error) {
	d := model.DefaultGuestPreferences()
	const ins = `INSERT IGNORE INTO guest_preferences
	             (guest_username, cancellation_alerts, day_before_reminders, hour_before_reminders)
	             VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, ins, guestID, d.CancellationAlerts, d.DayBeforeReminders, d.HourBeforeReminders); err != nil {
		return model.GuestPreferences{}, fmt.Errorf("init guest preferences: %w", err)
	}
	var p model.GuestPreferences
	const q = `SELECT cancellation_alerts, day_before_reminders, hour_before_reminders
	           FROM guest_preferences WHERE guest_username = ?`
	if err := r.db.QueryRowContext(ctx, q, guestID).Scan(&p.CancellationAlerts, &p.DayBeforeReminders, &p.HourBeforeReminders); err != nil {
		return model.GuestPreferences{}, fmt.Errorf("load guest preferences: %w", err)
	}
	return p, nil
}

// SaveGuestPreferences stores the complete bundle for the guest.
func (r *PreferenceRepo) SaveGuestPreferences(ctx context.Context, guestID string, p model.GuestPreferences) error {
	const q = `INSERT INTO guest_preferences
	           (guest_username, cancellation_alerts, day_before_reminders, hour_before_reminders)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             cancellation_alerts = VALUES(cancellation_alerts),
	             day_before_reminders = VALUES(day_before_reminders),
	             hour_before_reminders = VALUES(hour_before_reminders)`
	_, err := r.db.ExecContext(ctx, q, guestID, p.CancellationAlerts, p.DayBeforeReminders, p.HourBeforeReminders)
	return err
}

// StaffPreferences returns the staff-wide bundle, inserting defaults on
// first access.
func (r *PreferenceRepo) StaffPreferences(ctx context.Context) (model.StaffPreferences, error) {
	d := model.DefaultStaffPreferences()
	const ins = `INSERT IGNORE INTO staff_preferences
	             (id, new_reservation_alerts, change_alerts, thirty_min_reminders, fifteen_min_reminders)
	             VALUES (1, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, ins, d.NewReservationAlerts, d.ChangeAlerts, d.ThirtyMinReminders, d.FifteenMinReminders); err != nil {
		return model.StaffPreferences{}, fmt.Errorf("init staff preferences: %w", err)
	}
	var p model.StaffPreferences
	const q = `SELECT new_reservation_alerts, change_alerts, thirty_min_reminders, fifteen_min_reminders
	           FROM staff_preferences WHERE id = 1`
	if err := r.db.QueryRowContext(ctx, q).Scan(&p.NewReservationAlerts, &p.ChangeAlerts, &p.ThirtyMinReminders, &p.FifteenMinReminders); err != nil {
		return model.StaffPreferences{}, fmt.Errorf("load staff preferences: %w", err)
	}
	return p, nil
}

// SaveStaffPreferences stores the complete staff bundle.
func (r *PreferenceRepo) SaveStaffPreferences(ctx context.Context, p model.StaffPreferences) error {
	const q = `INSERT INTO staff_preferences
	           (id, new_reservation_alerts, change_alerts, thirty_min_reminders, fifteen_min_reminders)
	           VALUES (1, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	             new_reservation_alerts = VALUES(new_reservation_alerts),
	             change_alerts = VALUES(change_alerts),
	             thirty_min_reminders = VALUES(thirty_min_reminders),
	             fifteen_min_reminders = VALUES(fifteen_min_reminders)`
	_, err := r.db.ExecContext(ctx, q, p.NewReservationAlerts, p.ChangeAlerts, p.ThirtyMinReminders, p.FifteenMinReminders)
	return err
}

// Reset deletes every bundle.  The next read recreates defaults.
func (r *PreferenceRepo) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM guest_preferences`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM staff_preferences`); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
