package middleware

import "github.com/labstack/echo/v4"

// CurrentUserID returns the authenticated subject stored by JWTAuth, or
// "anon" when the request carries no token.
func CurrentUserID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
