package handler

import (
	"github.com/labstack/echo/v4"

	"devcamp/internal/auth"
)

// CallerContextKey is the echo context key under which the authentication
// middleware stores the resolved caller identity.
const CallerContextKey = "caller"

// CallerFromContext returns the caller identity resolved by the auth
// middleware. The second return is false when no valid identity is present,
// in which case authorization must fail closed.
func CallerFromContext(c echo.Context) (auth.Caller, bool) {
	caller, ok := c.Get(CallerContextKey).(auth.Caller)
	if !ok || !caller.Valid() {
		return auth.Caller{}, false
	}
	return caller, true
}
