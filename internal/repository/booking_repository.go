package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/confera/registration-api/internal/model"
	"github.com/confera/registration-api/internal/service"
)

// BookingRepo owns the bookings table and implements
// service.BookingStore.  The unique index on user_id carries the
// one-booking-per-user rule; capacity checks run inside InTx with the
// room row locked so racing bookings against a full room lose cleanly.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a repo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// ListByRoom returns all bookings for a room with the room data
// populated, newest first.
func (r *BookingRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	const q = `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
	                  r.id, r.hotel_id, r.name, r.capacity
	           FROM bookings b
	           JOIN rooms r ON r.id = b.room_id
	           WHERE b.room_id = ?
	           ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		var (
			b    model.Booking
			room model.Room
		)
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt,
			&room.ID, &room.HotelID, &room.Name, &room.Capacity,
		); err != nil {
			return nil, err
		}
		b.Room = &room
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindByUser returns the user's booking with its room, or nil, nil when
// the user holds none.
func (r *BookingRepo) FindByUser(ctx context.Context, userID uint64) (*model.Booking, error) {
	const q = `SELECT b.id, b.user_id, b.room_id, b.created_at, b.updated_at,
	                  r.id, r.hotel_id, r.name, r.capacity
	           FROM bookings b
	           JOIN rooms r ON r.id = b.room_id
	           WHERE b.user_id = ?`
	var (
		b    model.Booking
		room model.Room
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt,
		&room.ID, &room.HotelID, &room.Name, &room.Capacity,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	b.Room = &room
	return &b, nil
}

// CountByRoom counts committed bookings for a room.
func (r *BookingRepo) CountByRoom(ctx context.Context, roomID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE room_id = ?`, roomID).Scan(&n)
	return n, err
}

// InTx runs fn inside a single database transaction, committing only
// when fn returns nil.
func (r *BookingRepo) InTx(ctx context.Context, fn func(service.BookingTx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(&bookingTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// bookingTx implements service.BookingTx over one *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

// RoomForUpdate loads the room row with FOR UPDATE, serializing
// concurrent booking transactions against this room.
func (t *bookingTx) RoomForUpdate(ctx context.Context, roomID uint64) (*model.Room, error) {
	const q = `SELECT id, hotel_id, name, capacity FROM rooms WHERE id = ? FOR UPDATE`
	var room model.Room
	err := t.tx.QueryRowContext(ctx, q, roomID).Scan(&room.ID, &room.HotelID, &room.Name, &room.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (t *bookingTx) CountByRoom(ctx context.Context, roomID uint64) (int, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE room_id = ?`, roomID).Scan(&n)
	return n, err
}

func (t *bookingTx) BookingByUser(ctx context.Context, userID uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, room_id, created_at, updated_at FROM bookings WHERE user_id = ?`
	var b model.Booking
	err := t.tx.QueryRowContext(ctx, q, userID).Scan(&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Upsert inserts the user's booking or moves the existing one, in a
// single statement keyed on the unique user_id index.  Two concurrent
// first bookings for one user therefore collapse into one row.
func (t *bookingTx) Upsert(ctx context.Context, userID, roomID uint64) (*model.Booking, error) {
	const q = `INSERT INTO bookings (user_id, room_id) VALUES (?, ?)
	           ON DUPLICATE KEY UPDATE room_id = VALUES(room_id)`
	if _, err := t.tx.ExecContext(ctx, q, userID, roomID); err != nil {
		return nil, err
	}
	// LastInsertId is unreliable on the update path, so read the row
	// back by its unique key.
	var b model.Booking
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, user_id, room_id, created_at, updated_at FROM bookings WHERE user_id = ?`, userID).
		Scan(&b.ID, &b.UserID, &b.RoomID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (t *bookingTx) UpdateRoom(ctx context.Context, bookingID, roomID uint64) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE bookings SET room_id = ? WHERE id = ?`, roomID, bookingID)
	return err
}
