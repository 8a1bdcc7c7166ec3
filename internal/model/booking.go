package model

import "time"

// Booking is the join row between a user and the room they occupy.
// user_id is unique: a user holds at most one booking at any time, and
// booking again moves the existing row to the new room instead of
// inserting a second one.
type Booking struct {
	ID        uint64    `json:"id"`      // bookings.id
	UserID    uint64    `json:"user_id"` // bookings.user_id (unique)
	RoomID    uint64    `json:"room_id"` // bookings.room_id
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room *Room `json:"room,omitempty"` // joined rooms row, nil when not loaded
}
