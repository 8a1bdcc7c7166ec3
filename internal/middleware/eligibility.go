package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/confera/registration-api/internal/service"
)

// RequireEligibility rejects requests from users who fail the ticket
// eligibility check before the rest of the chain runs. Browse routes
// mount it AHEAD of the response cache: a cached reply must never be
// served to a user the gate would reject, so the gate has to fire on
// hits as well as misses.
func RequireEligibility(eligibility *service.Eligibility, requireHotel bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, ok := numericUserID(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if err := eligibility.Check(c.Request().Context(), uid, requireHotel); err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
			}
			return next(c)
		}
	}
}
