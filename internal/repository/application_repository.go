package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/confera/registration-api/internal/model"
	"github.com/confera/registration-api/internal/service"
)

// querier is the subset of *sql.DB and *sql.Tx used by queries that run
// both inside and outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ApplicationRepo owns the applications table and implements
// service.ApplicationStore.  Admission decisions run inside InTx, where
// the activity row is locked so the count-then-insert sequence cannot
// race with another admission to the same activity.
type ApplicationRepo struct {
	db *sql.DB
}

// NewApplicationRepo returns a repo bound to the given database.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

// ApplicationsByUser lists the user's applications with their activity
// schedules.  Returns an empty slice when the user holds none.
func (r *ApplicationRepo) ApplicationsByUser(ctx context.Context, userID uint64) ([]model.ApplicationDetail, error) {
	return applicationsByUser(ctx, r.db, userID)
}

// FindByUserAndActivity returns the application for a (user, activity)
// pair, or nil, nil when no row exists.
func (r *ApplicationRepo) FindByUserAndActivity(ctx context.Context, userID, activityID uint64) (*model.Application, error) {
	const q = `SELECT id, user_id, activity_id, created_at
	           FROM applications
	           WHERE user_id = ? AND activity_id = ?`
	var a model.Application
	err := r.db.QueryRowContext(ctx, q, userID, activityID).Scan(&a.ID, &a.UserID, &a.ActivityID, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes one application row by id.
func (r *ApplicationRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = ?`, id)
	return err
}

// InTx runs fn inside a single database transaction.  The transaction
// commits only when fn returns nil; any error aborts it with zero rows
// written.
func (r *ApplicationRepo) InTx(ctx context.Context, fn func(service.ApplicationTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&applicationTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// applicationTx implements service.ApplicationTx over one *sql.Tx.
type applicationTx struct {
	tx *sql.Tx
}

// ActivityForUpdate loads the activity row with FOR UPDATE.  The row
// lock serializes concurrent admission transactions on this activity
// until commit or rollback.
func (t *applicationTx) ActivityForUpdate(ctx context.Context, activityID uint64) (*model.Activity, error) {
	const q = `SELECT id, venue_id, name, capacity, date, starts_at, ends_at, created_at, updated_at
	           FROM activities
	           WHERE id = ?
	           FOR UPDATE`
	var a model.Activity
	err := t.tx.QueryRowContext(ctx, q, activityID).Scan(
		&a.ID, &a.VenueID, &a.Name, &a.Capacity, &a.Date, &a.StartsAt, &a.EndsAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (t *applicationTx) ApplicationsByUser(ctx context.Context, userID uint64) ([]model.ApplicationDetail, error) {
	return applicationsByUser(ctx, t.tx, userID)
}

func (t *applicationTx) CountByActivity(ctx context.Context, activityID uint64) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE activity_id = ?`, activityID).Scan(&n)
	return n, err
}

// Insert creates the application row and reads it back so the caller
// gets the generated id and timestamp.
func (t *applicationTx) Insert(ctx context.Context, userID, activityID uint64) (*model.Application, error) {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO applications (user_id, activity_id) VALUES (?, ?)`, userID, activityID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var a model.Application
	err = t.tx.QueryRowContext(ctx,
		`SELECT id, user_id, activity_id, created_at FROM applications WHERE id = ?`, id).
		Scan(&a.ID, &a.UserID, &a.ActivityID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// applicationsByUser backs both the plain and the transactional listing.
func applicationsByUser(ctx context.Context, q querier, userID uint64) ([]model.ApplicationDetail, error) {
	const query = `SELECT ap.id, ap.activity_id, a.name, a.capacity, a.date, a.starts_at, a.ends_at
	               FROM applications ap
	               JOIN activities a ON a.id = ap.activity_id
	               WHERE ap.user_id = ?
	               ORDER BY a.date, a.starts_at`
	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]model.ApplicationDetail, 0)
	for rows.Next() {
		var d model.ApplicationDetail
		if err := rows.Scan(&d.ID, &d.ActivityID, &d.ActivityName, &d.Capacity, &d.Date, &d.StartsAt, &d.EndsAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}
