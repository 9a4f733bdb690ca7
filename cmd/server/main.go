package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/thienng-it/note-hub-sub010/internal/apps"
	"github.com/thienng-it/note-hub-sub010/internal/apps/notes"
	"github.com/thienng-it/note-hub-sub010/internal/apps/profile"
	"github.com/thienng-it/note-hub-sub010/internal/apps/tasks"
	"github.com/thienng-it/note-hub-sub010/internal/auth"
	"github.com/thienng-it/note-hub-sub010/internal/config"
	"github.com/thienng-it/note-hub-sub010/internal/database"
	"github.com/thienng-it/note-hub-sub010/internal/handlers"
	"github.com/thienng-it/note-hub-sub010/internal/logging"
	"github.com/thienng-it/note-hub-sub010/internal/middleware"
	"github.com/thienng-it/note-hub-sub010/internal/routes"
	"github.com/thienng-it/note-hub-sub010/internal/services"
	"gorm.io/gorm"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.TokenSecret == "" {
		slog.Error("TOKEN_SECRET environment variable is required")
		os.Exit(1)
	}

	// Database. A connection failure is not fatal: the server stays up with
	// the token authority in degraded mode and data routes answering 503.
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed, starting degraded", "error", err)
	} else if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
	}

	// Token authority: availability decided once here, at startup
	signer := auth.NewSigner(cfg.TokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	mode := auth.ProbeStore(database.DB)
	authority := auth.NewAuthority(signer, auth.NewGormStore(database.DB), mode)

	plugins := []apps.Plugin{
		notes.New(),
		tasks.New(),
		profile.New(authority),
	}

	cleanupDone := make(chan struct{})
	if database.DB != nil {
		// Migrate plugin models
		for _, p := range plugins {
			if pm := p.Models(); len(pm) > 0 {
				if err := database.DB.AutoMigrate(pm...); err != nil {
					slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
					os.Exit(1)
				}
			}
		}

		// Security events to Postgres (WARN+ async batch)
		pgLogHandler := logging.NewPGHandler(database.DB)
		slog.SetDefault(slog.New(logging.NewMultiHandler(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
			pgLogHandler,
		)))
		defer pgLogHandler.Stop()

		// Retention loops (30-day security events, expired token records)
		logging.StartCleanup(database.DB, cleanupDone)
	}
	auth.StartPurge(authority, cleanupDone)

	// Services and handlers
	authService := services.NewAuthService(database.DB, authority)
	authHandler := handlers.NewAuthHandler(authService, authority)
	healthHandler := handlers.NewHealthHandler(authority)
	adminHandler := handlers.NewAdminHandler(database.DB, authority)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, func() *gorm.DB { return database.DB }, authHandler, healthHandler, adminHandler, plugins)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "token_store", authority.Mode().String())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
