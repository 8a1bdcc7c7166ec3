package model

// Hotel groups rooms available to hotel-inclusive ticket holders.
type Hotel struct {
	ID    uint64 `json:"id"`    // hotels.id
	Name  string `json:"name"`  // hotels.name
	Image string `json:"image"` // hotels.image (cover URL)
}

// Room belongs to a hotel and has a hard occupancy limit.  Rooms are
// provisioned upstream; the booking controller only counts and occupies
// them.
type Room struct {
	ID       uint64 `json:"id"`       // rooms.id
	HotelID  uint64 `json:"hotel_id"` // rooms.hotel_id
	Name     string `json:"name"`     // rooms.name
	Capacity int    `json:"capacity"` // rooms.capacity (>= 1)
}

// RoomInfo is a room annotated with its current booking count, used by
// the hotels-with-room-info browse endpoint so clients can show
// remaining vacancies.
type RoomInfo struct {
	Room
	BookingCount int `json:"booking_count"`
}

// HotelRooms is a hotel joined with its rooms.
type HotelRooms struct {
	Hotel
	Rooms []Room `json:"rooms"`
}

// HotelRoomInfo is a hotel joined with per-room booking counts.
type HotelRoomInfo struct {
	Hotel
	Rooms []RoomInfo `json:"rooms"`
}
