package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/confera/registration-api/internal/repository"
)

// HotelHandler serves the hotel browse endpoints.  Hotel browsing
// requires a hotel-inclusive ticket; the router enforces that with the
// eligibility middleware, mounted ahead of the response cache.
type HotelHandler struct {
	Hotels *repository.HotelRepo
}

func NewHotelHandler(hotels *repository.HotelRepo) *HotelHandler {
	if hotels == nil {
		panic("nil repository passed to NewHotelHandler")
	}
	return &HotelHandler{Hotels: hotels}
}

// GetHotels handles GET /v1/hotels.
func (h *HotelHandler) GetHotels(c echo.Context) error {
	hotels, err := h.Hotels.FindAll(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": hotels})
}

// GetHotelRooms handles GET /v1/hotels/:hotelId/rooms.
func (h *HotelHandler) GetHotelRooms(c echo.Context) error {
	hotelID, err := pathID(c, "hotelId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	result, err := h.Hotels.RoomsByHotel(c.Request().Context(), hotelID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetHotelsWithRoomInfo handles GET /v1/hotels/rooms.  Every hotel with
// per-room booking counts, for the vacancy overview screen.
func (h *HotelHandler) GetHotelsWithRoomInfo(c echo.Context) error {
	result, err := h.Hotels.FindAllWithRoomInfo(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": result})
}
