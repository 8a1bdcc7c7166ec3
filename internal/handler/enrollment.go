package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/confera/registration-api/internal/model"
	"github.com/confera/registration-api/internal/repository"
)

// EnrollmentHandler owns the participant enrollment form: the personal
// data and address a user must submit before reserving anything.
type EnrollmentHandler struct {
	Enrollments *repository.EnrollmentRepo
	Tickets     *repository.TicketRepo
}

func NewEnrollmentHandler(e *repository.EnrollmentRepo, t *repository.TicketRepo) *EnrollmentHandler {
	if e == nil || t == nil {
		panic("nil repository passed to NewEnrollmentHandler")
	}
	return &EnrollmentHandler{Enrollments: e, Tickets: t}
}

type addressReq struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

type enrollmentReq struct {
	Name     string     `json:"name"`
	Document string     `json:"document"`
	Phone    string     `json:"phone"`
	Birthday string     `json:"birthday"` // YYYY-MM-DD
	Address  addressReq `json:"address"`
}

type enrollmentResp struct {
	ID       uint64      `json:"id"`
	Name     string      `json:"name"`
	Document string      `json:"document"`
	Phone    string      `json:"phone"`
	Birthday string      `json:"birthday"`
	Address  *addressReq `json:"address,omitempty"`
	Ticket   *ticketPart `json:"ticket,omitempty"`
}

type ticketPart struct {
	ID            uint64 `json:"id"`
	Status        string `json:"status"`
	TypeName      string `json:"type_name"`
	IsRemote      bool   `json:"is_remote"`
	IncludesHotel bool   `json:"includes_hotel"`
}

// Get returns the user's enrollment with its address and, when one
// exists, the ticket attached to it.
func (h *EnrollmentHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	enrollment, err := h.Enrollments.EnrollmentByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if enrollment == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no enrollment"})
	}

	resp := enrollmentResp{
		ID:       enrollment.ID,
		Name:     enrollment.Name,
		Document: enrollment.Document,
		Phone:    enrollment.Phone,
		Birthday: enrollment.Birthday.Format("2006-01-02"),
	}
	if a := enrollment.Address; a != nil {
		resp.Address = &addressReq{
			Street:     a.Street,
			Number:     a.Number,
			District:   a.District,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
		}
	}

	ticket, err := h.Tickets.TicketByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if ticket != nil {
		resp.Ticket = &ticketPart{
			ID:            ticket.ID,
			Status:        ticket.Status,
			TypeName:      ticket.Type.Name,
			IsRemote:      ticket.Type.IsRemote,
			IncludesHotel: ticket.Type.IncludesHotel,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Upsert creates the user's enrollment or updates the existing one in
// place; the address is written in the same transaction.
func (h *EnrollmentHandler) Upsert(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req enrollmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Document = strings.TrimSpace(req.Document)
	if req.Name == "" || req.Document == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/document required"})
	}
	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "birthday must be YYYY-MM-DD"})
	}

	enrollment := &model.Enrollment{
		UserID:   uid,
		Name:     req.Name,
		Document: req.Document,
		Phone:    strings.TrimSpace(req.Phone),
		Birthday: birthday,
	}
	address := &model.Address{
		Street:     strings.TrimSpace(req.Address.Street),
		Number:     strings.TrimSpace(req.Address.Number),
		District:   strings.TrimSpace(req.Address.District),
		City:       strings.TrimSpace(req.Address.City),
		State:      strings.TrimSpace(req.Address.State),
		PostalCode: strings.TrimSpace(req.Address.PostalCode),
	}

	if err := h.Enrollments.UpsertWithAddress(c.Request().Context(), enrollment, address); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save enrollment failed"})
	}

	return c.JSON(http.StatusOK, enrollmentResp{
		ID:       enrollment.ID,
		Name:     enrollment.Name,
		Document: enrollment.Document,
		Phone:    enrollment.Phone,
		Birthday: enrollment.Birthday.Format("2006-01-02"),
		Address:  &req.Address,
	})
}
