package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrBootcampNotFound is returned when a bootcamp is not found.
	ErrBootcampNotFound = errors.New("bootcamp not found")
	// ErrCourseNotFound is returned when a course is not found.
	ErrCourseNotFound = errors.New("course not found")
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden is returned when the caller is neither the resource owner nor an admin.
	ErrForbidden = errors.New("not authorized to access this resource")
	// ErrBootcampAlreadyPublished is returned when a publisher tries to add a second bootcamp.
	ErrBootcampAlreadyPublished = errors.New("user has already published a bootcamp")
	// ErrDuplicateReview is returned when a user reviews the same bootcamp twice.
	ErrDuplicateReview = errors.New("bootcamp already reviewed by this user")
	// ErrInvalidFile is returned when an uploaded file fails validation.
	ErrInvalidFile = errors.New("invalid file upload")
)

// ErrorResponse represents a standardized error response envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewErrorResponse builds the failure envelope for a message.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return NewErrorResponse(e.Message)
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrBootcampNotFound),
		errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrReviewNotFound),
		errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrBootcampAlreadyPublished),
		errors.Is(err, ErrDuplicateReview),
		errors.Is(err, ErrInvalidFile):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
