// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// Reservation kinds carried in ReservationConfirmedEvent.Kind.
const (
	KindActivity = "ACTIVITY"
	KindRoom     = "ROOM"
)

// ReservationConfirmedEvent is published when a participant secures a spot,
// either an activity admission or a hotel room booking. It carries enough
// information for downstream consumers to log or notify without querying
// the primary database.
type ReservationConfirmedEvent struct {
	Kind         string `json:"kind"` // ACTIVITY or ROOM
	ResourceID   uint64 `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	UserID       uint64 `json:"user_id"`
	Capacity     uint32 `json:"capacity"`
	Date         string `json:"date,omitempty"`
	StartsAt     string `json:"starts_at,omitempty"`
	EndsAt       string `json:"ends_at,omitempty"`
	HotelName    string `json:"hotel_name,omitempty"`
	ConfirmedAt  string `json:"confirmed_at"`
}
