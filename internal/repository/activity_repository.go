package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/confera/registration-api/internal/model"
)

// ActivityRepo reads the activity schedule.  Activities and venues are
// provisioned upstream and never mutated here; admission decisions only
// count applications against them.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo returns a repo bound to the given database.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

// FindAll returns every activity with its venue name, ordered by date
// then start time so clients can render the schedule directly.
func (r *ActivityRepo) FindAll(ctx context.Context) ([]model.Activity, error) {
	const q = `SELECT a.id, a.venue_id, a.name, a.capacity, a.date, a.starts_at, a.ends_at,
	                  a.created_at, a.updated_at, v.name
	           FROM activities a
	           JOIN venues v ON v.id = a.venue_id
	           ORDER BY a.date, a.starts_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	activities := make([]model.Activity, 0)
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(
			&a.ID, &a.VenueID, &a.Name, &a.Capacity, &a.Date, &a.StartsAt, &a.EndsAt,
			&a.CreatedAt, &a.UpdatedAt, &a.VenueName,
		); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return activities, nil
}

// FindByID loads one activity with its venue name.  Returns nil, nil
// when no such activity exists.
func (r *ActivityRepo) FindByID(ctx context.Context, id uint64) (*model.Activity, error) {
	const q = `SELECT a.id, a.venue_id, a.name, a.capacity, a.date, a.starts_at, a.ends_at,
	                  a.created_at, a.updated_at, v.name
	           FROM activities a
	           JOIN venues v ON v.id = a.venue_id
	           WHERE a.id = ?`
	var a model.Activity
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.VenueID, &a.Name, &a.Capacity, &a.Date, &a.StartsAt, &a.EndsAt,
		&a.CreatedAt, &a.UpdatedAt, &a.VenueName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// VenuesWithActivities returns every venue ordered by name, each with
// its activities on the given calendar day.  Venues without activities
// that day appear with an empty list.
func (r *ActivityRepo) VenuesWithActivities(ctx context.Context, date time.Time) ([]model.VenueActivities, error) {
	const venueQ = `SELECT id, name FROM venues ORDER BY name`
	rows, err := r.db.QueryContext(ctx, venueQ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.VenueActivities, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, err
		}
		index[v.ID] = len(result)
		result = append(result, model.VenueActivities{Venue: v, Activities: []model.Activity{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	const actQ = `SELECT a.id, a.venue_id, a.name, a.capacity, a.date, a.starts_at, a.ends_at,
	                     a.created_at, a.updated_at
	              FROM activities a
	              WHERE a.date = ?
	              ORDER BY a.starts_at`
	arows, err := r.db.QueryContext(ctx, actQ, date.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a model.Activity
		if err := arows.Scan(
			&a.ID, &a.VenueID, &a.Name, &a.Capacity, &a.Date, &a.StartsAt, &a.EndsAt,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if i, ok := index[a.VenueID]; ok {
			result[i].Activities = append(result[i].Activities, a)
		}
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
