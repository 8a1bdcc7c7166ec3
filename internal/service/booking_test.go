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

// fakeBookingStore mirrors fakeApplicationStore for the booking side:
// whole-scope locking in InTx plus snapshot rollback on error.
type fakeBookingStore struct {
	mu       sync.Mutex
	rooms    map[uint64]model.Room
	bookings []model.Booking
	nextID   uint64
}

func newFakeBookingStore(rooms ...model.Room) *fakeBookingStore {
	s := &fakeBookingStore{rooms: map[uint64]model.Room{}, nextID: 1}
	for _, r := range rooms {
		s.rooms[r.ID] = r
	}
	return s
}

func (s *fakeBookingStore) ListByRoom(_ context.Context, roomID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Booking{}
	for _, b := range s.bookings {
		if b.RoomID == roomID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookingStore) FindByUser(_ context.Context, userID uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByUser(userID), nil
}

func (s *fakeBookingStore) findByUser(userID uint64) *model.Booking {
	for i := range s.bookings {
		if s.bookings[i].UserID == userID {
			found := s.bookings[i]
			return &found
		}
	}
	return nil
}

func (s *fakeBookingStore) CountByRoom(_ context.Context, roomID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countByRoom(roomID), nil
}

func (s *fakeBookingStore) countByRoom(roomID uint64) int {
	n := 0
	for _, b := range s.bookings {
		if b.RoomID == roomID {
			n++
		}
	}
	return n
}

func (s *fakeBookingStore) InTx(_ context.Context, fn func(BookingTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := append([]model.Booking(nil), s.bookings...)
	savedNext := s.nextID
	if err := fn(&fakeBookingTx{s: s}); err != nil {
		s.bookings = snapshot
		s.nextID = savedNext
		return err
	}
	return nil
}

type fakeBookingTx struct{ s *fakeBookingStore }

func (t *fakeBookingTx) RoomForUpdate(_ context.Context, roomID uint64) (*model.Room, error) {
	r, ok := t.s.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (t *fakeBookingTx) CountByRoom(_ context.Context, roomID uint64) (int, error) {
	return t.s.countByRoom(roomID), nil
}

func (t *fakeBookingTx) BookingByUser(_ context.Context, userID uint64) (*model.Booking, error) {
	return t.s.findByUser(userID), nil
}

func (t *fakeBookingTx) Upsert(_ context.Context, userID, roomID uint64) (*model.Booking, error) {
	for i := range t.s.bookings {
		if t.s.bookings[i].UserID == userID {
			t.s.bookings[i].RoomID = roomID
			t.s.bookings[i].UpdatedAt = time.Now()
			found := t.s.bookings[i]
			return &found, nil
		}
	}
	b := model.Booking{ID: t.s.nextID, UserID: userID, RoomID: roomID, CreatedAt: time.Now()}
	t.s.nextID++
	t.s.bookings = append(t.s.bookings, b)
	return &b, nil
}

func (t *fakeBookingTx) UpdateRoom(_ context.Context, bookingID, roomID uint64) error {
	for i := range t.s.bookings {
		if t.s.bookings[i].ID == bookingID {
			t.s.bookings[i].RoomID = roomID
			t.s.bookings[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

func room(id uint64, capacity int) model.Room {
	return model.Room{ID: id, HotelID: 1, Name: "room", Capacity: capacity}
}

func TestBookAndFind(t *testing.T) {
	store := newFakeBookingStore(room(1, 2))
	bookings := NewRoomBooking(paidEligibility(1), store)
	ctx := context.Background()

	booked, err := bookings.Book(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), booked.RoomID)

	found, err := bookings.FindByUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, booked.ID, found.ID)
}

func TestFindWithoutBooking(t *testing.T) {
	store := newFakeBookingStore(room(1, 2))
	bookings := NewRoomBooking(paidEligibility(1), store)

	found, err := bookings.FindByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestBookRequiresHotelTicket(t *testing.T) {
	store := newFakeBookingStore(room(1, 2))
	// Paid on-site ticket but no hotel entitlement.
	bookings := NewRoomBooking(eligibilityWith(model.TicketPaid, false, false, 1), store)

	_, err := bookings.Book(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBookUnknownRoom(t *testing.T) {
	store := newFakeBookingStore()
	bookings := NewRoomBooking(paidEligibility(1), store)

	_, err := bookings.Book(context.Background(), 1, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookFullRoom(t *testing.T) {
	store := newFakeBookingStore(room(1, 1))
	bookings := NewRoomBooking(paidEligibility(1, 2), store)
	ctx := context.Background()

	_, err := bookings.Book(ctx, 1, 1)
	require.NoError(t, err)

	_, err = bookings.Book(ctx, 2, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBookTwiceMovesBooking(t *testing.T) {
	store := newFakeBookingStore(room(1, 2), room(2, 2))
	bookings := NewRoomBooking(paidEligibility(1), store)
	ctx := context.Background()

	first, err := bookings.Book(ctx, 1, 1)
	require.NoError(t, err)

	second, err := bookings.Book(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "rebooking must move the row, not create another")
	assert.Equal(t, uint64(2), second.RoomID)

	count, err := bookings.CountByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count, "the old room must be freed")
}

func TestBookOwnFullRoomIsNoOp(t *testing.T) {
	store := newFakeBookingStore(room(1, 1))
	bookings := NewRoomBooking(paidEligibility(1), store)
	ctx := context.Background()

	first, err := bookings.Book(ctx, 1, 1)
	require.NoError(t, err)

	// Room 1 is now full, but only with the caller's own booking, so
	// booking it again must succeed without changing anything.
	again, err := bookings.Book(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	count, err := bookings.CountByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRebookOwnFullRoomIsNoOp(t *testing.T) {
	store := newFakeBookingStore(room(1, 1))
	bookings := NewRoomBooking(paidEligibility(1), store)
	ctx := context.Background()

	first, err := bookings.Book(ctx, 1, 1)
	require.NoError(t, err)

	movedID, err := bookings.Rebook(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, movedID)
}

func TestRebookWithoutBooking(t *testing.T) {
	store := newFakeBookingStore(room(1, 2))
	bookings := NewRoomBooking(paidEligibility(1), store)

	_, err := bookings.Rebook(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRebookKeepsOldRoomWhenTargetFull(t *testing.T) {
	store := newFakeBookingStore(room(1, 2), room(2, 1))
	bookings := NewRoomBooking(paidEligibility(1, 2), store)
	ctx := context.Background()

	_, err := bookings.Book(ctx, 1, 2) // fills room 2
	require.NoError(t, err)
	booked, err := bookings.Book(ctx, 2, 1)
	require.NoError(t, err)

	_, err = bookings.Rebook(ctx, 2, 2)
	require.ErrorIs(t, err, ErrUnauthorized)

	still, err := bookings.FindByUser(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, still)
	assert.Equal(t, booked.RoomID, still.RoomID)
}

func TestRebookMovesBooking(t *testing.T) {
	store := newFakeBookingStore(room(1, 2), room(2, 2))
	bookings := NewRoomBooking(paidEligibility(1), store)
	ctx := context.Background()

	booked, err := bookings.Book(ctx, 1, 1)
	require.NoError(t, err)

	movedID, err := bookings.Rebook(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, booked.ID, movedID)

	found, err := bookings.FindByUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, uint64(2), found.RoomID)
}

func TestBookCapacityUnderContention(t *testing.T) {
	const capacity = 2
	const contenders = 20

	users := make([]uint64, contenders)
	for i := range users {
		users[i] = uint64(i + 1)
	}
	store := newFakeBookingStore(room(1, capacity))
	bookings := NewRoomBooking(paidEligibility(users...), store)

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = bookings.Book(context.Background(), users[i], 1)
		}(i)
	}
	wg.Wait()

	booked := 0
	for _, err := range errs {
		if err == nil {
			booked++
		} else {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}
	}
	assert.Equal(t, capacity, booked)

	count, err := bookings.CountByRoom(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, capacity, count)
}

func TestListByRoom(t *testing.T) {
	store := newFakeBookingStore(room(1, 3), room(2, 3))
	bookings := NewRoomBooking(paidEligibility(1, 2, 3), store)
	ctx := context.Background()

	_, err := bookings.Book(ctx, 1, 1)
	require.NoError(t, err)
	_, err = bookings.Book(ctx, 2, 1)
	require.NoError(t, err)
	_, err = bookings.Book(ctx, 3, 2)
	require.NoError(t, err)

	list, err := bookings.ListByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
