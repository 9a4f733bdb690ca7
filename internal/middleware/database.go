package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thienng-it/note-hub-sub010/internal/dto"
	"gorm.io/gorm"
)

// RequireDatabase answers 503 on data routes when the server is running
// without its database. Token issuance and refresh stay up in that mode; the
// CRUD surface does not.
func RequireDatabase(db func() *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db() == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: "Service temporarily unavailable",
			})
		}
		return c.Next()
	}
}
