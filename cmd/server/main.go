package main

import (
	"log"
	"net/http"

	"devcamp/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"devcamp/internal/auth"
	"devcamp/internal/cache"
	"devcamp/internal/config"
	"devcamp/internal/db"
	"devcamp/internal/email"
	"devcamp/internal/handler"
	"devcamp/internal/model"
	"devcamp/internal/repository"
	"devcamp/internal/router"
	"devcamp/internal/service"
	"devcamp/internal/storage"
)

// @title Bootcamp Directory API
// @version 1.0
// @description Bootcamp directory API with courses, reviews, user management and JWT authentication.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Bootcamp{},
		&model.Course{},
		&model.Review{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	bootcampRepo := repository.NewBootcampRepository(gormDB)
	courseRepo := repository.NewCourseRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)

	// Initialize auth components and collaborators
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	mailer := email.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	photoStore := storage.NewPhotoStore(cfg.FileUploadDir, cfg.MaxFileUpload)

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, jwtService, mailer, cfg.ResetTokenTTL)
	bootcampService := service.NewBootcampService(bootcampRepo, cacheClient, photoStore)
	courseService := service.NewCourseService(courseRepo, bootcampRepo)
	reviewService := service.NewReviewService(reviewRepo, bootcampRepo)
	userService := service.NewUserService(userRepo, hasher)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.JWTExpiry)
	bootcampHandler := handler.NewBootcampHandler(bootcampService)
	courseHandler := handler.NewCourseHandler(courseService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	userHandler := handler.NewUserHandler(userService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		userRepo,
		authHandler,
		bootcampHandler,
		courseHandler,
		reviewHandler,
		userHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
