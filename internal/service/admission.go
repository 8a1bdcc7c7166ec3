package service

import (
	"context"

	"github.com/confera/registration-api/internal/model"
)

// ApplicationTx is the transactional scope the admission controller
// works inside.  Implementations must make every method observe the
// writes of earlier methods in the same scope, and must discard all
// writes when the scope function returns an error.  The SQL
// implementation locks the activity row, so concurrent admissions to
// the same activity serialize on ActivityForUpdate.
type ApplicationTx interface {
	// ActivityForUpdate resolves the target activity and blocks other
	// admission transactions on it until this one ends.  Returns
	// ErrNotFound when no such activity exists.
	ActivityForUpdate(ctx context.Context, activityID uint64) (*model.Activity, error)
	// ApplicationsByUser lists the user's applications with their
	// activity schedules, for the conflict rule.
	ApplicationsByUser(ctx context.Context, userID uint64) ([]model.ApplicationDetail, error)
	// CountByActivity counts committed applications for an activity.
	CountByActivity(ctx context.Context, activityID uint64) (int, error)
	// Insert creates the application row and returns it.
	Insert(ctx context.Context, userID, activityID uint64) (*model.Application, error)
}

// ApplicationStore is the persistence surface for activity admissions.
type ApplicationStore interface {
	ApplicationsByUser(ctx context.Context, userID uint64) ([]model.ApplicationDetail, error)
	// FindByUserAndActivity returns nil, nil when the pair has no row.
	FindByUserAndActivity(ctx context.Context, userID, activityID uint64) (*model.Application, error)
	Delete(ctx context.Context, id uint64) error
	// InTx runs fn inside one atomic transaction: commit when fn
	// returns nil, roll back otherwise.
	InTx(ctx context.Context, fn func(ApplicationTx) error) error
}

// Admission is the activity admission controller.  It decides whether a
// user may register for a capacity-limited activity and owns the
// application rows.
type Admission struct {
	eligibility *Eligibility
	store       ApplicationStore
}

// NewAdmission constructs the controller.
func NewAdmission(eligibility *Eligibility, store ApplicationStore) *Admission {
	if eligibility == nil || store == nil {
		panic("nil dependency passed to NewAdmission")
	}
	return &Admission{eligibility: eligibility, store: store}
}

// List returns the user's applications with their activity schedules.
// Holding none is not an error; the result is an empty slice.
func (a *Admission) List(ctx context.Context, userID uint64) ([]model.ApplicationDetail, error) {
	if err := a.eligibility.Check(ctx, userID, false); err != nil {
		return nil, err
	}
	return a.store.ApplicationsByUser(ctx, userID)
}

// Get looks up the user's application for one activity.  ErrBadRequest
// when the user never applied to it.
func (a *Admission) Get(ctx context.Context, userID, activityID uint64) (*model.Application, error) {
	application, err := a.store.FindByUserAndActivity(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, ErrBadRequest
	}
	return application, nil
}

// Apply registers the user for an activity.  After the eligibility
// gate, the whole decision runs in one store transaction: resolve the
// activity, reject time conflicts with the user's existing
// applications, reject when the activity is full, insert.  A losing
// concurrent request fails with ErrUnauthorized and writes nothing.
func (a *Admission) Apply(ctx context.Context, userID, activityID uint64) (*model.Application, error) {
	if err := a.eligibility.Check(ctx, userID, false); err != nil {
		return nil, err
	}
	var created *model.Application
	err := a.store.InTx(ctx, func(tx ApplicationTx) error {
		activity, err := tx.ActivityForUpdate(ctx, activityID)
		if err != nil {
			return err
		}
		existing, err := tx.ApplicationsByUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, application := range existing {
			if !application.Date.Equal(activity.Date) {
				continue
			}
			// Conflict means an equal start or an equal end on the same
			// day.  Windows that overlap without touching a boundary are
			// allowed; keep it that way.
			if application.StartsAt.Equal(activity.StartsAt) || application.EndsAt.Equal(activity.EndsAt) {
				return ErrUnauthorized
			}
		}
		count, err := tx.CountByActivity(ctx, activityID)
		if err != nil {
			return err
		}
		if count >= activity.Capacity {
			return ErrUnauthorized
		}
		created, err = tx.Insert(ctx, userID, activityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Cancel removes the user's application for an activity.  A cancel for
// an application the user does not hold fails with ErrUnauthorized.
func (a *Admission) Cancel(ctx context.Context, userID, activityID uint64) error {
	if err := a.eligibility.Check(ctx, userID, false); err != nil {
		return err
	}
	application, err := a.store.FindByUserAndActivity(ctx, userID, activityID)
	if err != nil {
		return err
	}
	if application == nil {
		return ErrUnauthorized
	}
	return a.store.Delete(ctx, application.ID)
}
