package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/authgate/authgate/internal/api/handler"
	"github.com/authgate/authgate/internal/api/middleware"
	"github.com/authgate/authgate/internal/core/auth"
	"github.com/authgate/authgate/internal/core/service"
	"github.com/authgate/authgate/internal/infrastructure/config"
	mongodb "github.com/authgate/authgate/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The session store is created by the caller so it can own the store's
// lifecycle (janitor goroutine, metrics gauge).
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, sessions auth.SessionStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("authgate"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, log)
	sessionManager := service.NewSessionManager(userRepo, sessions)
	strategy := auth.New(cfg.AuthType, userRepo, sessions, cfg.Session.CookieName)
	authHandler := handler.NewAuthHandler(authService, sessionManager, cfg.Session.CookieName, cfg.Session.TTL)

	// --- Request filter: 401 without a credential, 403 without a principal ---
	if cfg.AuthType != auth.KindNone {
		e.Use(middleware.AuthFilter(strategy, cfg.ExcludedPaths))
	}

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.DELETE("/auth/logout", authHandler.Logout)
	e.GET("/auth/profile", authHandler.Profile)
	e.POST("/auth/reset_password", authHandler.ResetPasswordToken)
	e.PUT("/auth/reset_password", authHandler.UpdatePassword)

	// --- Health probes and metrics (excluded from auth by default) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
