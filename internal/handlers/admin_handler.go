package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/auth"
	"github.com/thienng-it/note-hub-sub010/internal/dto"
	"github.com/thienng-it/note-hub-sub010/internal/models"
	"gorm.io/gorm"
)

// AdminHandler exposes the user and session management panel.
type AdminHandler struct {
	db        *gorm.DB
	authority *auth.Authority
}

func NewAdminHandler(db *gorm.DB, authority *auth.Authority) *AdminHandler {
	return &AdminHandler{db: db, authority: authority}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.db.Order("created_at DESC").Limit(200).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list users",
		})
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{
			ID: u.ID, Username: u.Username, Email: u.Email,
			Role: u.Role, Theme: u.Theme, Bio: u.Bio, LastLogin: u.LastLogin,
		})
	}
	return c.JSON(fiber.Map{"users": out})
}

// RevokeUserSessions forces re-authentication on every device for a user.
func (h *AdminHandler) RevokeUserSessions(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	if err := h.authority.RevokeAll(userID); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to revoke sessions",
		})
	}

	return c.JSON(fiber.Map{"message": "All sessions revoked for user"})
}
