package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/thienng-it/note-hub-sub010/internal/apps"
	"github.com/thienng-it/note-hub-sub010/internal/config"
	"github.com/thienng-it/note-hub-sub010/internal/handlers"
	"github.com/thienng-it/note-hub-sub010/internal/middleware"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db func() *gorm.DB,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	adminHandler *handlers.AdminHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/validate", authHandler.Validate)

	// Protected auth routes
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Post("/auth/logout-all", middleware.JWTProtected(cfg), authHandler.LogoutAll)
	api.Get("/auth/sessions", middleware.JWTProtected(cfg), authHandler.Sessions)

	// Admin panel (protected + admin required)
	admin := api.Group("/admin",
		middleware.RequireDatabase(db),
		middleware.JWTProtected(cfg),
		middleware.AdminRequired(db(), cfg))
	admin.Get("/users", adminHandler.ListUsers)
	admin.Post("/users/:id/revoke-sessions", adminHandler.RevokeUserSessions)

	// Feature modules, JWT protected; data routes answer 503 without the DB
	protected := api.Group("/", middleware.RequireDatabase(db), middleware.JWTProtected(cfg))
	for _, p := range plugins {
		p.RegisterRoutes(protected, db(), cfg)
	}
}
