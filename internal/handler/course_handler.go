package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"devcamp/internal/errors"
	"devcamp/internal/model"
	"devcamp/internal/service"
)

// CourseHandler handles course endpoints.
type CourseHandler struct {
	courseService service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(courseService service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// CreateCourseRequest represents a course creation request.
type CreateCourseRequest struct {
	Title                string          `json:"title" validate:"required,max=255"`
	Description          string          `json:"description" validate:"required,max=500"`
	Weeks                int             `json:"weeks" validate:"required,min=1"`
	Tuition              decimal.Decimal `json:"tuition" validate:"required"`
	MinimumSkill         string          `json:"minimum_skill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool            `json:"scholarship_available"`
}

// UpdateCourseRequest represents a partial course update.
type UpdateCourseRequest struct {
	Title                *string          `json:"title" validate:"omitempty,max=255"`
	Description          *string          `json:"description" validate:"omitempty,max=500"`
	Weeks                *int             `json:"weeks" validate:"omitempty,min=1"`
	Tuition              *decimal.Decimal `json:"tuition"`
	MinimumSkill         *string          `json:"minimum_skill" validate:"omitempty,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool            `json:"scholarship_available"`
}

// List godoc
// @Summary List courses, optionally scoped to a bootcamp
// @Tags courses
// @Produce json
// @Param bootcampId path string false "Bootcamp ID"
// @Success 200 {object} Response
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		courses []model.Course
		err     error
	)
	if bootcampParam := c.Param("bootcampId"); bootcampParam != "" {
		bootcampID, parseErr := uuid.Parse(bootcampParam)
		if parseErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid bootcamp ID"))
		}
		courses, err = h.courseService.ListByBootcamp(ctx, bootcampID)
	} else {
		courses, err = h.courseService.List(ctx)
	}
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ListResponse(int64(len(courses)), courses))
}

// Get godoc
// @Summary Get a single course
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid course ID"))
	}

	course, err := h.courseService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(course))
}

// Create godoc
// @Summary Add a course to a bootcamp
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcampId path string true "Bootcamp ID"
// @Param request body CreateCourseRequest true "Course data"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{bootcampId}/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	bootcampID, err := uuid.Parse(c.Param("bootcampId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid bootcamp ID"))
	}

	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	course := &model.Course{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		MinimumSkill:         model.MinimumSkill(req.MinimumSkill),
		ScholarshipAvailable: req.ScholarshipAvailable,
	}

	created, err := h.courseService.Create(c.Request().Context(), caller, bootcampID, course)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, DataResponse(created))
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param request body UpdateCourseRequest true "Fields to update"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid course ID"))
	}

	var req UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	input := service.UpdateCourseInput{
		Title:                req.Title,
		Description:          req.Description,
		Weeks:                req.Weeks,
		Tuition:              req.Tuition,
		ScholarshipAvailable: req.ScholarshipAvailable,
	}
	if req.MinimumSkill != nil {
		skill := model.MinimumSkill(*req.MinimumSkill)
		input.MinimumSkill = &skill
	}

	updated, err := h.courseService.Update(c.Request().Context(), caller, id, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(updated))
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid course ID"))
	}

	if err := h.courseService.Delete(c.Request().Context(), caller, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(map[string]interface{}{}))
}
