package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"devcamp/internal/errors"
	"devcamp/internal/model"
	"devcamp/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest represents a review creation request.
type CreateReviewRequest struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required,max=1000"`
	Rating int    `json:"rating" validate:"required,min=1,max=10"`
}

// UpdateReviewRequest represents a partial review update.
type UpdateReviewRequest struct {
	Title  *string `json:"title" validate:"omitempty,max=100"`
	Text   *string `json:"text" validate:"omitempty,max=1000"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=10"`
}

// ListByBootcamp godoc
// @Summary List reviews for a bootcamp
// @Tags reviews
// @Produce json
// @Param bootcampId path string true "Bootcamp ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{bootcampId}/reviews [get]
func (h *ReviewHandler) ListByBootcamp(c echo.Context) error {
	bootcampID, err := uuid.Parse(c.Param("bootcampId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid bootcamp ID"))
	}

	reviews, err := h.reviewService.ListByBootcamp(c.Request().Context(), bootcampID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ListResponse(int64(len(reviews)), reviews))
}

// Get godoc
// @Summary Get a single review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid review ID"))
	}

	review, err := h.reviewService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(review))
}

// Create godoc
// @Summary Add a review to a bootcamp
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcampId path string true "Bootcamp ID"
// @Param request body CreateReviewRequest true "Review data"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{bootcampId}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	bootcampID, err := uuid.Parse(c.Param("bootcampId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid bootcamp ID"))
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	review := &model.Review{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
	}

	created, err := h.reviewService.Create(c.Request().Context(), caller, bootcampID, review)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, DataResponse(created))
}

// Update godoc
// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body UpdateReviewRequest true "Fields to update"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid review ID"))
	}

	var req UpdateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	updated, err := h.reviewService.Update(c.Request().Context(), caller, id, service.UpdateReviewInput{
		Title:  req.Title,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(updated))
}

// Delete godoc
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid review ID"))
	}

	if err := h.reviewService.Delete(c.Request().Context(), caller, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(map[string]interface{}{}))
}
