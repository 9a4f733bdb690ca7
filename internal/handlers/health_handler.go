package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/thienng-it/note-hub-sub010/internal/auth"
	"github.com/thienng-it/note-hub-sub010/internal/database"
	"github.com/thienng-it/note-hub-sub010/internal/dto"
)

type HealthHandler struct {
	authority *auth.Authority
}

func NewHealthHandler(authority *auth.Authority) *HealthHandler {
	return &HealthHandler{authority: authority}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		DB:         dbStatus,
		TokenStore: h.authority.Mode().String(),
	})
}
