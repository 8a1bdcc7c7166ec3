package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confera/registration-api/internal/model"
	"github.com/confera/registration-api/internal/service"
)

type stubEnrollments map[uint64]*model.Enrollment

func (s stubEnrollments) EnrollmentByUser(_ context.Context, userID uint64) (*model.Enrollment, error) {
	return s[userID], nil
}

type stubTickets map[uint64]*model.Ticket

func (s stubTickets) TicketByEnrollment(_ context.Context, enrollmentID uint64) (*model.Ticket, error) {
	return s[enrollmentID], nil
}

// gateTestEligibility: user 1 holds a paid hotel-inclusive ticket,
// user 2 a paid ticket without hotel access, user 3 nothing at all.
func gateTestEligibility() *service.Eligibility {
	enrollments := stubEnrollments{
		1: {ID: 1, UserID: 1},
		2: {ID: 2, UserID: 2},
	}
	tickets := stubTickets{
		1: {ID: 1, EnrollmentID: 1, Status: model.TicketPaid, Type: model.TicketType{IncludesHotel: true}},
		2: {ID: 2, EnrollmentID: 2, Status: model.TicketPaid, Type: model.TicketType{IncludesHotel: false}},
	}
	return service.NewEligibility(enrollments, tickets)
}

func withUser(uid interface{}) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", uid)
			return next(c)
		}
	}
}

func gatedRequest(t *testing.T, uid interface{}, requireHotel bool, extra ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	handlerRan := false
	e := echo.New()
	mws := append([]echo.MiddlewareFunc{
		withUser(uid),
		RequireEligibility(gateTestEligibility(), requireHotel),
	}, extra...)
	e.GET("/hotels", func(c echo.Context) error {
		handlerRan = true
		return c.JSON(http.StatusOK, echo.Map{"hotels": []string{"Grand Plaza"}})
	}, mws...)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotels", nil))
	return rec, &handlerRan
}

func TestRequireEligibilityAllowsTicketHolder(t *testing.T) {
	rec, ran := gatedRequest(t, float64(1), true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *ran)
}

func TestRequireEligibilityRejectsWithoutHotelTicket(t *testing.T) {
	rec, ran := gatedRequest(t, float64(2), true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *ran, "gated handler must not run for ineligible users")
}

func TestRequireEligibilityWithoutHotelRequirement(t *testing.T) {
	// User 2's ticket is paid but hotel-free: fine for the schedule,
	// not for hotels.
	rec, _ := gatedRequest(t, float64(2), false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireEligibilityRejectsUnknownUser(t *testing.T) {
	rec, ran := gatedRequest(t, float64(3), false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *ran)
}

func TestRequireEligibilityRejectsMissingIdentity(t *testing.T) {
	rec, ran := gatedRequest(t, nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *ran)
}

// servedFromStore stands in for a response cache hit: it replies with a
// previously stored payload without ever calling the handler.
func servedFromStore(payload string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-Cache", "HIT")
			return c.String(http.StatusOK, payload)
		}
	}
}

func TestRequireEligibilityRunsAheadOfStoredResponses(t *testing.T) {
	// An eligible user may have warmed the cache; a later ineligible
	// request must still be rejected by the gate, never answered from
	// the store.
	rec, ran := gatedRequest(t, float64(2), true, servedFromStore(`{"hotels":["Grand Plaza"]}`))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *ran)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NotContains(t, rec.Body.String(), "Grand Plaza")

	// The eligible user still gets the stored reply.
	rec, _ = gatedRequest(t, float64(1), true, servedFromStore(`{"hotels":["Grand Plaza"]}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), "Grand Plaza")
}
