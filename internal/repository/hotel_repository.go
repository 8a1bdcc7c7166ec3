package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/confera/registration-api/internal/model"
	"github.com/confera/registration-api/internal/service"
)

// HotelRepo reads hotels and rooms.  Both are provisioned upstream;
// this service only browses them and counts bookings per room.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo returns a repo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// FindAll returns every hotel.
func (r *HotelRepo) FindAll(ctx context.Context) ([]model.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, image FROM hotels ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]model.Hotel, 0)
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Image); err != nil {
			return nil, err
		}
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hotels, nil
}

// RoomsByHotel returns one hotel with its rooms.  service.ErrNotFound
// when the hotel does not exist.
func (r *HotelRepo) RoomsByHotel(ctx context.Context, hotelID uint64) (*model.HotelRooms, error) {
	var result model.HotelRooms
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, image FROM hotels WHERE id = ?`, hotelID).
		Scan(&result.ID, &result.Name, &result.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, hotel_id, name, capacity FROM rooms WHERE hotel_id = ? ORDER BY name`, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result.Rooms = make([]model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.HotelID, &room.Name, &room.Capacity); err != nil {
			return nil, err
		}
		result.Rooms = append(result.Rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &result, nil
}

// RoomWithHotel loads one room plus the name of its hotel.  Returns
// nil, "", nil when no such room exists.
func (r *HotelRepo) RoomWithHotel(ctx context.Context, roomID uint64) (*model.Room, string, error) {
	const q = `SELECT r.id, r.hotel_id, r.name, r.capacity, h.name
	           FROM rooms r
	           JOIN hotels h ON h.id = r.hotel_id
	           WHERE r.id = ?`
	var (
		room      model.Room
		hotelName string
	)
	err := r.db.QueryRowContext(ctx, q, roomID).
		Scan(&room.ID, &room.HotelID, &room.Name, &room.Capacity, &hotelName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &room, hotelName, nil
}

// FindAllWithRoomInfo returns every hotel with its rooms annotated by
// their current booking count, so clients can display remaining
// vacancies without extra round trips.
func (r *HotelRepo) FindAllWithRoomInfo(ctx context.Context) ([]model.HotelRoomInfo, error) {
	hotels, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]model.HotelRoomInfo, 0, len(hotels))
	index := make(map[uint64]int)
	for _, h := range hotels {
		index[h.ID] = len(result)
		result = append(result, model.HotelRoomInfo{Hotel: h, Rooms: []model.RoomInfo{}})
	}
	if len(result) == 0 {
		return result, nil
	}

	const q = `SELECT r.id, r.hotel_id, r.name, r.capacity, COUNT(b.id)
	           FROM rooms r
	           LEFT JOIN bookings b ON b.room_id = r.id
	           GROUP BY r.id, r.hotel_id, r.name, r.capacity
	           ORDER BY r.hotel_id, r.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var info model.RoomInfo
		if err := rows.Scan(&info.ID, &info.HotelID, &info.Name, &info.Capacity, &info.BookingCount); err != nil {
			return nil, err
		}
		if i, ok := index[info.HotelID]; ok {
			result[i].Rooms = append(result[i].Rooms, info)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
