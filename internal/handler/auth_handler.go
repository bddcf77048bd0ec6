package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"devcamp/internal/errors"
	"devcamp/internal/model"
	"devcamp/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	tokenExpiry time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, tokenExpiry time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, tokenExpiry: tokenExpiry}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string     `json:"name" validate:"required"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateDetailsRequest represents a profile update request.
type UpdateDetailsRequest struct {
	Name  string `json:"name" validate:"omitempty"`
	Email string `json:"email" validate:"omitempty,email"`
}

// UpdatePasswordRequest represents a password change request.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// ForgotPasswordRequest represents a password reset initiation request.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a password reset completion request.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	token, _, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch err {
		case service.ErrUserAlreadyExists:
			return echo.NewHTTPError(http.StatusConflict, errors.NewErrorResponse(err.Error()))
		case service.ErrInvalidRole:
			return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.NewErrorResponse("failed to register user"))
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusCreated, TokenResponse(token))
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse(err.Error()))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.NewErrorResponse("failed to login"))
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusOK, TokenResponse(token))
}

// Logout godoc
// @Summary Log the current user out
// @Description Overwrites the token cookie; the bearer token itself stays valid until expiry.
// @Tags auth
// @Produce json
// @Success 200 {object} Response
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "none",
		Expires:  time.Now().Add(-10 * time.Second),
		HttpOnly: true,
		Path:     "/",
	})
	return c.JSON(http.StatusOK, DataResponse(map[string]interface{}{}))
}

// GetMe godoc
// @Summary Get the current logged in user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	user, err := h.authService.GetUser(c.Request().Context(), caller.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.NewErrorResponse("failed to load user"))
	}
	return c.JSON(http.StatusOK, DataResponse(user))
}

// UpdateDetails godoc
// @Summary Update the current user's name and email
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateDetailsRequest true "Fields to update"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/updatedetails [put]
func (h *AuthHandler) UpdateDetails(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	var req UpdateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	user, err := h.authService.UpdateDetails(c.Request().Context(), caller.UserID, req.Name, req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, errors.NewErrorResponse("failed to update details"))
	}
	return c.JSON(http.StatusOK, DataResponse(user))
}

// UpdatePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/updatepassword [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	token, err := h.authService.UpdatePassword(c.Request().Context(), caller.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse(err.Error()))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.NewErrorResponse("failed to update password"))
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusOK, TokenResponse(token))
}

// ForgotPassword godoc
// @Summary Request a password reset token by email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	resetURLBase := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword", c.Scheme(), c.Request().Host)
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email, resetURLBase); err != nil {
		switch err {
		case service.ErrEmailNotFound:
			return echo.NewHTTPError(http.StatusNotFound, errors.NewErrorResponse(err.Error()))
		case service.ErrEmailNotSent:
			return echo.NewHTTPError(http.StatusInternalServerError, errors.NewErrorResponse(err.Error()))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.NewErrorResponse("failed to process reset request"))
	}
	return c.JSON(http.StatusOK, DataResponse("email sent"))
}

// ResetPassword godoc
// @Summary Reset the password using an emailed token
// @Tags auth
// @Accept json
// @Produce json
// @Param resettoken path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/resetpassword/{resettoken} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	token, _, err := h.authService.ResetPassword(c.Request().Context(), c.Param("resettoken"), req.Password)
	if err != nil {
		if err == service.ErrInvalidResetToken {
			return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, errors.NewErrorResponse("failed to reset password"))
	}

	h.setTokenCookie(c, token)
	return c.JSON(http.StatusOK, TokenResponse(token))
}

func (h *AuthHandler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.tokenExpiry),
		HttpOnly: true,
		Path:     "/",
	})
}
