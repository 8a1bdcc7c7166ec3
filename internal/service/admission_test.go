package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confera/registration-api/internal/model"
)

// fakeApplicationStore is an in-memory ApplicationStore. InTx holds the
// mutex for the whole scope, which gives the same serializability the
// SQL implementation gets from row locks, and restores a snapshot when
// the scope fails, which models the rollback.
type fakeApplicationStore struct {
	mu         sync.Mutex
	activities map[uint64]model.Activity
	apps       []model.Application
	nextID     uint64
}

func newFakeApplicationStore(activities ...model.Activity) *fakeApplicationStore {
	s := &fakeApplicationStore{activities: map[uint64]model.Activity{}, nextID: 1}
	for _, a := range activities {
		s.activities[a.ID] = a
	}
	return s
}

func (s *fakeApplicationStore) detailsFor(userID uint64) []model.ApplicationDetail {
	out := []model.ApplicationDetail{}
	for _, ap := range s.apps {
		if ap.UserID != userID {
			continue
		}
		a := s.activities[ap.ActivityID]
		out = append(out, model.ApplicationDetail{
			ID:           ap.ID,
			ActivityID:   a.ID,
			ActivityName: a.Name,
			Capacity:     a.Capacity,
			Date:         a.Date,
			StartsAt:     a.StartsAt,
			EndsAt:       a.EndsAt,
		})
	}
	return out
}

func (s *fakeApplicationStore) ApplicationsByUser(_ context.Context, userID uint64) ([]model.ApplicationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailsFor(userID), nil
}

func (s *fakeApplicationStore) FindByUserAndActivity(_ context.Context, userID, activityID uint64) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ap := range s.apps {
		if ap.UserID == userID && ap.ActivityID == activityID {
			found := ap
			return &found, nil
		}
	}
	return nil, nil
}

func (s *fakeApplicationStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ap := range s.apps {
		if ap.ID == id {
			s.apps = append(s.apps[:i], s.apps[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeApplicationStore) InTx(_ context.Context, fn func(ApplicationTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := append([]model.Application(nil), s.apps...)
	savedNext := s.nextID
	if err := fn(&fakeApplicationTx{s: s}); err != nil {
		s.apps = snapshot
		s.nextID = savedNext
		return err
	}
	return nil
}

type fakeApplicationTx struct{ s *fakeApplicationStore }

func (t *fakeApplicationTx) ActivityForUpdate(_ context.Context, activityID uint64) (*model.Activity, error) {
	a, ok := t.s.activities[activityID]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (t *fakeApplicationTx) ApplicationsByUser(_ context.Context, userID uint64) ([]model.ApplicationDetail, error) {
	return t.s.detailsFor(userID), nil
}

func (t *fakeApplicationTx) CountByActivity(_ context.Context, activityID uint64) (int, error) {
	n := 0
	for _, ap := range t.s.apps {
		if ap.ActivityID == activityID {
			n++
		}
	}
	return n, nil
}

func (t *fakeApplicationTx) Insert(_ context.Context, userID, activityID uint64) (*model.Application, error) {
	ap := model.Application{ID: t.s.nextID, UserID: userID, ActivityID: activityID, CreatedAt: time.Now()}
	t.s.nextID++
	t.s.apps = append(t.s.apps, ap)
	return &ap, nil
}

func day(d int) time.Time {
	return time.Date(2025, time.September, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour, min int) time.Time {
	return time.Date(2025, time.September, d, hour, min, 0, 0, time.UTC)
}

func activity(id uint64, capacity, d, startHour, endHour int) model.Activity {
	return model.Activity{
		ID:       id,
		Name:     "talk",
		Capacity: capacity,
		Date:     day(d),
		StartsAt: at(d, startHour, 0),
		EndsAt:   at(d, endHour, 0),
	}
}

func TestApplyAndList(t *testing.T) {
	store := newFakeApplicationStore(activity(10, 5, 7, 9, 10))
	admission := NewAdmission(paidEligibility(1), store)
	ctx := context.Background()

	created, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint64(10), created.ActivityID)

	list, err := admission.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "talk", list[0].ActivityName)
}

func TestListWithoutApplications(t *testing.T) {
	store := newFakeApplicationStore(activity(10, 5, 7, 9, 10))
	admission := NewAdmission(paidEligibility(1), store)

	list, err := admission.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestApplyIneligibleUser(t *testing.T) {
	store := newFakeApplicationStore(activity(10, 5, 7, 9, 10))
	admission := NewAdmission(paidEligibility(1), store)

	_, err := admission.Apply(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApplyUnknownActivity(t *testing.T) {
	store := newFakeApplicationStore()
	admission := NewAdmission(paidEligibility(1), store)

	_, err := admission.Apply(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyFullActivity(t *testing.T) {
	store := newFakeApplicationStore(activity(10, 2, 7, 9, 10))
	admission := NewAdmission(paidEligibility(1, 2, 3), store)
	ctx := context.Background()

	_, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)
	_, err = admission.Apply(ctx, 2, 10)
	require.NoError(t, err)

	_, err = admission.Apply(ctx, 3, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApplyEqualStartConflict(t *testing.T) {
	store := newFakeApplicationStore(
		activity(10, 5, 7, 9, 10),
		activity(11, 5, 7, 9, 11), // same day, same start, different end
	)
	admission := NewAdmission(paidEligibility(1), store)
	ctx := context.Background()

	_, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)

	_, err = admission.Apply(ctx, 1, 11)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApplyEqualEndConflict(t *testing.T) {
	store := newFakeApplicationStore(
		activity(10, 5, 7, 9, 10),
		activity(11, 5, 7, 8, 10), // same day, different start, same end
	)
	admission := NewAdmission(paidEligibility(1), store)
	ctx := context.Background()

	_, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)

	_, err = admission.Apply(ctx, 1, 11)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestApplyOverlapWithDistinctBoundaries(t *testing.T) {
	// The conflict rule only compares boundaries. A window nested inside
	// another, touching neither start nor end, is admitted.
	store := newFakeApplicationStore(
		activity(10, 5, 7, 9, 12),
		activity(11, 5, 7, 10, 11),
	)
	admission := NewAdmission(paidEligibility(1), store)
	ctx := context.Background()

	_, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)

	_, err = admission.Apply(ctx, 1, 11)
	assert.NoError(t, err)
}

func TestApplySameTimeDifferentDay(t *testing.T) {
	store := newFakeApplicationStore(
		activity(10, 5, 7, 9, 10),
		activity(11, 5, 8, 9, 10),
	)
	admission := NewAdmission(paidEligibility(1), store)
	ctx := context.Background()

	_, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)

	_, err = admission.Apply(ctx, 1, 11)
	assert.NoError(t, err)
}

func TestApplyConflictWritesNothing(t *testing.T) {
	store := newFakeApplicationStore(
		activity(10, 5, 7, 9, 10),
		activity(11, 5, 7, 9, 11),
	)
	admission := NewAdmission(paidEligibility(1), store)
	ctx := context.Background()

	_, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)
	_, err = admission.Apply(ctx, 1, 11)
	require.ErrorIs(t, err, ErrUnauthorized)

	list, err := admission.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestApplyCapacityUnderContention(t *testing.T) {
	const capacity = 5
	const contenders = 50

	users := make([]uint64, contenders)
	for i := range users {
		users[i] = uint64(i + 1)
	}
	store := newFakeApplicationStore(activity(10, capacity, 7, 9, 10))
	admission := NewAdmission(paidEligibility(users...), store)

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = admission.Apply(context.Background(), users[i], 10)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
		} else {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}
	}
	assert.Equal(t, capacity, admitted)

	tx := &fakeApplicationTx{s: store}
	count, err := tx.CountByActivity(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, capacity, count)
}

func TestGetWithoutApplication(t *testing.T) {
	store := newFakeApplicationStore(activity(10, 5, 7, 9, 10))
	admission := NewAdmission(paidEligibility(1), store)

	_, err := admission.Get(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestGetAfterApply(t *testing.T) {
	store := newFakeApplicationStore(activity(10, 5, 7, 9, 10))
	admission := NewAdmission(paidEligibility(1), store)
	ctx := context.Background()

	created, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)

	got, err := admission.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCancelWithoutApplication(t *testing.T) {
	store := newFakeApplicationStore(activity(10, 5, 7, 9, 10))
	admission := NewAdmission(paidEligibility(1), store)

	err := admission.Cancel(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCancelFreesSpot(t *testing.T) {
	store := newFakeApplicationStore(activity(10, 1, 7, 9, 10))
	admission := NewAdmission(paidEligibility(1, 2), store)
	ctx := context.Background()

	_, err := admission.Apply(ctx, 1, 10)
	require.NoError(t, err)
	_, err = admission.Apply(ctx, 2, 10)
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, admission.Cancel(ctx, 1, 10))

	_, err = admission.Apply(ctx, 2, 10)
	assert.NoError(t, err)
}
