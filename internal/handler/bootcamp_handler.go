package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"devcamp/internal/errors"
	"devcamp/internal/model"
	"devcamp/internal/service"
)

// BootcampHandler handles bootcamp endpoints.
type BootcampHandler struct {
	bootcampService service.BootcampService
}

// NewBootcampHandler creates a new bootcamp handler.
func NewBootcampHandler(bootcampService service.BootcampService) *BootcampHandler {
	return &BootcampHandler{bootcampService: bootcampService}
}

// CreateBootcampRequest represents a bootcamp creation request.
type CreateBootcampRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Description   string   `json:"description" validate:"required,max=500"`
	Website       string   `json:"website" validate:"omitempty,url"`
	Phone         string   `json:"phone" validate:"omitempty,max=20"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address" validate:"omitempty,max=255"`
	Careers       []string `json:"careers"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"job_assistance"`
	JobGuarantee  bool     `json:"job_guarantee"`
}

// UpdateBootcampRequest represents a partial bootcamp update.
type UpdateBootcampRequest struct {
	Name          *string   `json:"name" validate:"omitempty,max=255"`
	Description   *string   `json:"description" validate:"omitempty,max=500"`
	Website       *string   `json:"website" validate:"omitempty,url"`
	Phone         *string   `json:"phone" validate:"omitempty,max=20"`
	Email         *string   `json:"email" validate:"omitempty,email"`
	Address       *string   `json:"address" validate:"omitempty,max=255"`
	Careers       *[]string `json:"careers"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"job_assistance"`
	JobGuarantee  *bool     `json:"job_guarantee"`
}

// List godoc
// @Summary List bootcamps
// @Tags bootcamps
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} Response
// @Failure 500 {object} errors.ErrorResponse
// @Router /bootcamps [get]
func (h *BootcampHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	bootcamps, total, err := h.bootcampService.List(c.Request().Context(), page, limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, ListResponse(total, bootcamps))
}

// Get godoc
// @Summary Get a single bootcamp
// @Tags bootcamps
// @Produce json
// @Param id path string true "Bootcamp ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{id} [get]
func (h *BootcampHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid bootcamp ID"))
	}

	bootcamp, err := h.bootcampService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(bootcamp))
}

// Create godoc
// @Summary Create a bootcamp
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBootcampRequest true "Bootcamp data"
// @Success 201 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /bootcamps [post]
func (h *BootcampHandler) Create(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	var req CreateBootcampRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	bootcamp := &model.Bootcamp{
		Name:          req.Name,
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
	}

	created, err := h.bootcampService.Create(c.Request().Context(), caller, bootcamp)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, DataResponse(created))
}

// Update godoc
// @Summary Update a bootcamp
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID"
// @Param request body UpdateBootcampRequest true "Fields to update"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{id} [put]
func (h *BootcampHandler) Update(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid bootcamp ID"))
	}

	var req UpdateBootcampRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse(err.Error()))
	}

	updated, err := h.bootcampService.Update(c.Request().Context(), caller, id, service.UpdateBootcampInput{
		Name:          req.Name,
		Description:   req.Description,
		Website:       req.Website,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(updated))
}

// Delete godoc
// @Summary Delete a bootcamp
// @Tags bootcamps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{id} [delete]
func (h *BootcampHandler) Delete(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid bootcamp ID"))
	}

	if err := h.bootcampService.Delete(c.Request().Context(), caller, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(map[string]interface{}{}))
}

// UploadPhoto godoc
// @Summary Upload a bootcamp photo
// @Tags bootcamps
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID"
// @Param file formData file true "Image file"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{id}/photo [put]
func (h *BootcampHandler) UploadPhoto(c echo.Context) error {
	caller, ok := CallerFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.NewErrorResponse("not authorized"))
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("invalid bootcamp ID"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("please upload a file"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.NewErrorResponse("please upload a file"))
	}
	defer src.Close()

	name, err := h.bootcampService.UploadPhoto(
		c.Request().Context(),
		caller,
		id,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		src,
	)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, DataResponse(name))
}
