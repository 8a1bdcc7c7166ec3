package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/confera/registration-api/internal/queue"
	"github.com/confera/registration-api/internal/repository"
	"github.com/confera/registration-api/internal/service"
	"github.com/confera/registration-api/internal/utils"
)

// ApplicationHandler exposes the activity admission flow. The admission
// rules live in service.Admission; this layer only parses requests,
// maps errors to statuses and emits confirmation events.
type ApplicationHandler struct {
	Admission  *service.Admission
	Activities *repository.ActivityRepo
}

func NewApplicationHandler(admission *service.Admission, activities *repository.ActivityRepo) *ApplicationHandler {
	if admission == nil || activities == nil {
		panic("nil dependency passed to NewApplicationHandler")
	}
	return &ApplicationHandler{Admission: admission, Activities: activities}
}

type applicationPart struct {
	ID         uint64 `json:"id"`
	ActivityID uint64 `json:"activity_id"`
	Activity   string `json:"activity,omitempty"`
	Capacity   int    `json:"capacity,omitempty"`
	Date       string `json:"date,omitempty"`
	StartsAt   string `json:"starts_at,omitempty"`
	EndsAt     string `json:"ends_at,omitempty"`
}

// List handles GET /v1/applications.  Returns the user's applications
// with their activity schedules; no applications means an empty list.
func (h *ApplicationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Admission.List(c.Request().Context(), uid)
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]applicationPart, 0, len(details))
	for _, d := range details {
		out = append(out, applicationPart{
			ID:         d.ID,
			ActivityID: d.ActivityID,
			Activity:   d.ActivityName,
			Capacity:   d.Capacity,
			Date:       utils.FormatDateWithWeekday(d.Date),
			StartsAt:   utils.FormatTime(d.StartsAt),
			EndsAt:     utils.FormatTime(d.EndsAt),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"applications": out})
}

// Get handles GET /v1/applications/:activityId.  400 when the user
// never applied to that activity.
func (h *ApplicationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	activityID, err := pathID(c, "activityId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	application, err := h.Admission.Get(c.Request().Context(), uid, activityID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, applicationPart{
		ID:         application.ID,
		ActivityID: application.ActivityID,
	})
}

// Apply handles POST /v1/applications/:activityId.  On success the
// admission is announced on the broker; a broker failure never undoes
// the admission.
func (h *ApplicationHandler) Apply(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	activityID, err := pathID(c, "activityId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	application, err := h.Admission.Apply(ctx, uid, activityID)
	if err != nil {
		return serviceError(c, err)
	}

	go h.publishAdmission(uid, activityID)

	return c.JSON(http.StatusCreated, applicationPart{
		ID:         application.ID,
		ActivityID: application.ActivityID,
	})
}

// Cancel handles DELETE /v1/applications/:activityId.
func (h *ApplicationHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	activityID, err := pathID(c, "activityId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Admission.Cancel(c.Request().Context(), uid, activityID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ApplicationHandler) publishAdmission(userID, activityID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.ReservationConfirmedEvent{
		Kind:        queue.KindActivity,
		ResourceID:  activityID,
		UserID:      userID,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if activity, err := h.Activities.FindByID(ctx, activityID); err == nil && activity != nil {
		ev.ResourceName = activity.Name
		ev.Capacity = uint32(activity.Capacity)
		ev.Date = activity.Date.UTC().Format("2006-01-02")
		ev.StartsAt = utils.FormatTime(activity.StartsAt)
		ev.EndsAt = utils.FormatTime(activity.EndsAt)
	}
	_ = queue.PublishReservationConfirmed(ctx, ev)
}
