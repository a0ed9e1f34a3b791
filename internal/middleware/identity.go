package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// Identity returns the username and role JWTAuth stored on c.  ok is false
// for unauthenticated requests.
func Identity(c echo.Context) (username, role string, ok bool) {
	username, _ = c.Get(ctxUserID).(string)
	role, _ = c.Get(ctxRole).(string)
	return username, role, username != "" && role != ""
}

// currentUserID is Identity's username or "anon".
func currentUserID(c echo.Context) string {
	if u, _, ok := Identity(c); ok {
		return u
	}
	return "anon"
}
