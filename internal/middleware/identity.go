package middleware

// identity.go defines helper functions shared across middleware files.
// currentUserID pulls the user UUID that JWTAuth stored in the Echo
// context; cache keys and rate-limit keys include it so one user's
// owner-scoped responses are never served to another.

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated user's UUID or "anon" when the
// request carries no identity.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
