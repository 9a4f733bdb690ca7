package profile

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thienng-it/note-hub-sub010/internal/auth"
	"github.com/thienng-it/note-hub-sub010/internal/config"
	"gorm.io/gorm"
)

type ProfilePlugin struct {
	authority *auth.Authority
}

func New(authority *auth.Authority) *ProfilePlugin {
	return &ProfilePlugin{authority: authority}
}

func (p *ProfilePlugin) ID() string { return "profile" }

// Models returns nothing: the profile module works on the shared User model.
func (p *ProfilePlugin) Models() []interface{} {
	return nil
}

func (p *ProfilePlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewProfileService(db, p.authority)
	handler := NewProfileHandler(svc)

	router.Get("/profile", handler.Get)
	router.Put("/profile", handler.Update)
	router.Post("/profile/password", handler.ChangePassword)
}
