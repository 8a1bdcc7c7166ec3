package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// numericUserID extracts the authenticated user's id from the context.
// JWT numeric claims decode as float64, so both forms are handled.
func numericUserID(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case uint64:
		return v, true
	case float64:
		return uint64(v), true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// currentUserID returns the authenticated user's identifier for use in
// rate-limit keys, or "anon" for unauthenticated requests.
func currentUserID(c echo.Context) string {
	if uid, ok := numericUserID(c); ok {
		return strconv.FormatUint(uid, 10)
	}
	return "anon"
}
