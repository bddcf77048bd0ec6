package router

import (
	stderrors "errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"devcamp/internal/auth"
	"devcamp/internal/errors"
	"devcamp/internal/handler"
	"devcamp/internal/model"
	"devcamp/internal/repository"
)

// newJWTMiddleware verifies the bearer token (header or cookie) and stores
// the verified claims under echo's "user" key.
func newJWTMiddleware(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:token",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.Verify(tokenString)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			msg := "not authorized to access this route"
			if stderrors.Is(err, auth.ErrTokenExpired) {
				msg = auth.ErrTokenExpired.Error()
			}
			return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse(msg))
		},
	})
}

// newCallerMiddleware resolves the token claims to a live user record and
// stores the caller identity for the access-control checks. Any gap in the
// chain fails closed with 401.
func newCallerMiddleware(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized to access this route"))
			}

			user, err := userRepo.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized to access this route"))
			}

			c.Set(handler.CallerContextKey, auth.Caller{UserID: user.ID, Role: user.Role})
			return next(c)
		}
	}
}

// requireRoles gates a route to callers holding one of the allowed roles.
func requireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := handler.CallerFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized to access this route"))
			}
			if !caller.HasRole(roles...) {
				return echo.NewHTTPError(http.StatusForbidden, errors.NewErrorResponse("user role is not authorized to access this route"))
			}
			return next(c)
		}
	}
}
