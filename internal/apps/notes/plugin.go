package notes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thienng-it/note-hub-sub010/internal/config"
	"gorm.io/gorm"
)

type NotesPlugin struct{}

func New() *NotesPlugin {
	return &NotesPlugin{}
}

func (p *NotesPlugin) ID() string { return "notes" }

func (p *NotesPlugin) Models() []interface{} {
	return []interface{}{
		&Note{},
		&NoteShare{},
	}
}

func (p *NotesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewNoteService(db)
	handler := NewNoteHandler(svc)

	router.Get("/notes", handler.List)
	router.Post("/notes", handler.Create)
	router.Get("/notes/:id", handler.Get)
	router.Put("/notes/:id", handler.Update)
	router.Patch("/notes/:id", handler.Update)
	router.Delete("/notes/:id", handler.Delete)

	router.Get("/notes/:id/shares", handler.ListShares)
	router.Post("/notes/:id/share", handler.Share)
	router.Delete("/notes/:id/shares/:shareId", handler.Unshare)
}
