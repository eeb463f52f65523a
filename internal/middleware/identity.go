package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the authenticated user's identifier as a string, or
// "anon" for unauthenticated requests.  JWTAuth stores the sub claim
// under user_id without normalizing its type: a freshly parsed token
// carries JSON numbers as float64, while internal callers may set a
// string or uint64.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
