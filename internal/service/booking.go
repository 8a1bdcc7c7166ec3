package service

import (
	"context"

	"github.com/confera/registration-api/internal/model"
)

// BookingTx is the transactional scope for room booking.  The same
// atomicity contract as ApplicationTx applies; RoomForUpdate serializes
// concurrent bookings against one room.
type BookingTx interface {
	// RoomForUpdate resolves the target room and blocks other booking
	// transactions on it.  Returns ErrNotFound when absent.
	RoomForUpdate(ctx context.Context, roomID uint64) (*model.Room, error)
	CountByRoom(ctx context.Context, roomID uint64) (int, error)
	// BookingByUser returns nil, nil when the user has no booking.
	BookingByUser(ctx context.Context, userID uint64) (*model.Booking, error)
	// Upsert creates the user's booking or, when one already exists,
	// moves it to roomID in place.  Keyed on the unique user_id
	// constraint so two concurrent first bookings cannot both insert.
	Upsert(ctx context.Context, userID, roomID uint64) (*model.Booking, error)
	UpdateRoom(ctx context.Context, bookingID, roomID uint64) error
}

// BookingStore is the persistence surface for room bookings.
type BookingStore interface {
	// ListByRoom returns bookings with their room data populated.
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error)
	// FindByUser returns nil, nil when the user has no booking.
	FindByUser(ctx context.Context, userID uint64) (*model.Booking, error)
	CountByRoom(ctx context.Context, roomID uint64) (int, error)
	InTx(ctx context.Context, fn func(BookingTx) error) error
}

// RoomBooking is the room booking controller.  It enforces room
// capacity transactionally and the one-active-booking-per-user rule via
// upsert-or-reassign semantics.
type RoomBooking struct {
	eligibility *Eligibility
	store       BookingStore
}

// NewRoomBooking constructs the controller.
func NewRoomBooking(eligibility *Eligibility, store BookingStore) *RoomBooking {
	if eligibility == nil || store == nil {
		panic("nil dependency passed to NewRoomBooking")
	}
	return &RoomBooking{eligibility: eligibility, store: store}
}

// ListByRoom is the administrative view of a room's occupants.  It has
// no eligibility gate; route middleware restricts it to admins.
func (b *RoomBooking) ListByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	return b.store.ListByRoom(ctx, roomID)
}

// FindByUser returns the user's booking, or nil when none exists.
func (b *RoomBooking) FindByUser(ctx context.Context, userID uint64) (*model.Booking, error) {
	return b.store.FindByUser(ctx, userID)
}

// CountByRoom reports how many bookings a room currently holds.
func (b *RoomBooking) CountByRoom(ctx context.Context, roomID uint64) (int, error) {
	return b.store.CountByRoom(ctx, roomID)
}

// Book occupies a room for the user.  Requires a hotel-inclusive
// ticket.  The capacity check and the upsert run in one transaction, so
// a full room can never be over-occupied by racing requests.  A second
// Book call moves the user's existing booking instead of creating
// another row; booking the room already held is a no-op even when that
// room is full, since the caller's own booking fills no extra spot.
func (b *RoomBooking) Book(ctx context.Context, userID, roomID uint64) (*model.Booking, error) {
	if err := b.eligibility.Check(ctx, userID, true); err != nil {
		return nil, err
	}
	var booking *model.Booking
	err := b.store.InTx(ctx, func(tx BookingTx) error {
		current, err := tx.BookingByUser(ctx, userID)
		if err != nil {
			return err
		}
		room, err := tx.RoomForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		if current != nil && current.RoomID == roomID {
			booking = current
			return nil
		}
		count, err := tx.CountByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if count >= room.Capacity {
			return ErrUnauthorized
		}
		booking, err = tx.Upsert(ctx, userID, roomID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Rebook moves the user's existing booking to another room and returns
// the booking ID.  Rebooking without a prior booking fails with
// ErrUnauthorized; the target room is capacity-checked like in Book.
func (b *RoomBooking) Rebook(ctx context.Context, userID, roomID uint64) (uint64, error) {
	if err := b.eligibility.Check(ctx, userID, true); err != nil {
		return 0, err
	}
	var bookingID uint64
	err := b.store.InTx(ctx, func(tx BookingTx) error {
		current, err := tx.BookingByUser(ctx, userID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrUnauthorized
		}
		room, err := tx.RoomForUpdate(ctx, roomID)
		if err != nil {
			return err
		}
		// Moving into the room already held changes nothing; skip the
		// capacity check so a full room does not block its own occupant.
		if current.RoomID == roomID {
			bookingID = current.ID
			return nil
		}
		count, err := tx.CountByRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if count >= room.Capacity {
			return ErrUnauthorized
		}
		if err := tx.UpdateRoom(ctx, current.ID, roomID); err != nil {
			return err
		}
		bookingID = current.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return bookingID, nil
}
