package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"devcamp/internal/auth"
	"devcamp/internal/config"
	"devcamp/internal/errors"
	"devcamp/internal/handler"
	"devcamp/internal/model"
	"devcamp/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	bootcampHandler *handler.BootcampHandler,
	courseHandler *handler.CourseHandler,
	reviewHandler *handler.ReviewHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = envelopeErrorHandler

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	protect := []echo.MiddlewareFunc{newJWTMiddleware(jwtService), newCallerMiddleware(userRepo)}
	publisherOnly := append(protect, requireRoles(model.RolePublisher, model.RoleAdmin))
	reviewerOnly := append(protect, requireRoles(model.RoleUser, model.RoleAdmin))
	adminOnly := append(protect, requireRoles(model.RoleAdmin))

	api := e.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/logout", authHandler.Logout)
	authGroup.POST("/forgotpassword", authHandler.ForgotPassword)
	authGroup.PUT("/resetpassword/:resettoken", authHandler.ResetPassword)
	authGroup.GET("/me", authHandler.GetMe, protect...)
	authGroup.PUT("/updatedetails", authHandler.UpdateDetails, protect...)
	authGroup.PUT("/updatepassword", authHandler.UpdatePassword, protect...)

	// Bootcamp routes
	bootcamps := api.Group("/bootcamps")
	bootcamps.GET("", bootcampHandler.List)
	bootcamps.GET("/:id", bootcampHandler.Get)
	bootcamps.POST("", bootcampHandler.Create, publisherOnly...)
	bootcamps.PUT("/:id", bootcampHandler.Update, publisherOnly...)
	bootcamps.DELETE("/:id", bootcampHandler.Delete, publisherOnly...)
	bootcamps.PUT("/:id/photo", bootcampHandler.UploadPhoto, publisherOnly...)

	// Nested course and review routes
	bootcamps.GET("/:bootcampId/courses", courseHandler.List)
	bootcamps.POST("/:bootcampId/courses", courseHandler.Create, publisherOnly...)
	bootcamps.GET("/:bootcampId/reviews", reviewHandler.ListByBootcamp)
	bootcamps.POST("/:bootcampId/reviews", reviewHandler.Create, reviewerOnly...)

	// Course routes
	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.PUT("/:id", courseHandler.Update, publisherOnly...)
	courses.DELETE("/:id", courseHandler.Delete, publisherOnly...)

	// Review routes
	reviews := api.Group("/reviews")
	reviews.GET("/:id", reviewHandler.Get)
	reviews.PUT("/:id", reviewHandler.Update, reviewerOnly...)
	reviews.DELETE("/:id", reviewHandler.Delete, reviewerOnly...)

	// User management (admin only)
	users := api.Group("/users", adminOnly...)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
}

// envelopeErrorHandler renders every error as the {success, error} envelope.
func envelopeErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	payload := errors.NewErrorResponse("internal server error")
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch msg := he.Message.(type) {
		case errors.ErrorResponse:
			payload = msg
		case string:
			payload = errors.NewErrorResponse(msg)
		default:
			payload = errors.NewErrorResponse(fmt.Sprintf("%v", msg))
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, payload)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
