package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/confera/registration-api/internal/model"
	"github.com/confera/registration-api/internal/repository"
	"github.com/confera/registration-api/internal/utils"
)

// ActivityHandler serves the read-only activity schedule.
type ActivityHandler struct {
	Activities *repository.ActivityRepo
}

func NewActivityHandler(a *repository.ActivityRepo) *ActivityHandler {
	if a == nil {
		panic("nil repository passed to NewActivityHandler")
	}
	return &ActivityHandler{Activities: a}
}

type activityPart struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Venue    string `json:"venue,omitempty"`
	Capacity int    `json:"capacity"`
	Date     string `json:"date"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

func toActivityPart(a model.Activity) activityPart {
	return activityPart{
		ID:       a.ID,
		Name:     a.Name,
		Venue:    a.VenueName,
		Capacity: a.Capacity,
		Date:     utils.FormatDateWithWeekday(a.Date),
		StartsAt: utils.FormatTime(a.StartsAt),
		EndsAt:   utils.FormatTime(a.EndsAt),
	}
}

// GetActivities handles GET /v1/activities.  Returns the distinct event
// days plus the full schedule, dates formatted for the schedule screens.
func (h *ActivityHandler) GetActivities(c echo.Context) error {
	activities, err := h.Activities.FindAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	dates := make([]string, 0)
	seen := make(map[string]bool)
	out := make([]activityPart, 0, len(activities))
	for _, a := range activities {
		day := utils.FormatDate(a.Date)
		if !seen[day] {
			seen[day] = true
			dates = append(dates, day)
		}
		out = append(out, toActivityPart(a))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"dates":      dates,
		"activities": out,
	})
}

type venueActivitiesPart struct {
	ID         uint64         `json:"id"`
	Name       string         `json:"name"`
	Activities []activityPart `json:"activities"`
}

// GetActivitiesByDate handles GET /v1/activities/:date (YYYY-MM-DD).
// Returns every venue with its activities on that day.
func (h *ActivityHandler) GetActivitiesByDate(c echo.Context) error {
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}

	venues, err := h.Activities.VenuesWithActivities(c.Request().Context(), date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	out := make([]venueActivitiesPart, 0, len(venues))
	for _, v := range venues {
		part := venueActivitiesPart{ID: v.Venue.ID, Name: v.Venue.Name, Activities: []activityPart{}}
		for _, a := range v.Activities {
			part.Activities = append(part.Activities, toActivityPart(a))
		}
		out = append(out, part)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"date":   utils.FormatDateWithWeekday(date),
		"venues": out,
	})
}
