package notes

import (
	"time"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/models"
	"gorm.io/gorm"
)

type Note struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_notes_owner_archived" json:"owner_id"`
	Title     string         `gorm:"size:200;not null;default:'Untitled'" json:"title"`
	Body      string         `gorm:"type:text;not null;default:''" json:"body"`
	Pinned    bool           `gorm:"default:false;index" json:"pinned"`
	Archived  bool           `gorm:"default:false;index:idx_notes_owner_archived" json:"archived"`
	Favorite  bool           `gorm:"default:false;index" json:"favorite"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Owner     models.User    `gorm:"foreignKey:OwnerID" json:"-"`
}

// NoteShare grants another user access to a note. The owner stays in control:
// only the owner can create or remove shares, and CanEdit decides whether the
// recipient may change the note's content.
type NoteShare struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	NoteID       uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_note_shares_note_user" json:"note_id"`
	SharedByID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"shared_by_id"`
	SharedWithID uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_note_shares_note_user" json:"shared_with_id"`
	CanEdit      bool        `gorm:"default:false;not null" json:"can_edit"`
	CreatedAt    time.Time   `json:"created_at"`
	Note         Note        `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE" json:"-"`
	SharedBy     models.User `gorm:"foreignKey:SharedByID" json:"-"`
	SharedWith   models.User `gorm:"foreignKey:SharedWithID" json:"-"`
}

// --- DTOs ---

type CreateNoteRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type UpdateNoteRequest struct {
	Title    *string `json:"title"`
	Body     *string `json:"body"`
	Pinned   *bool   `json:"pinned"`
	Archived *bool   `json:"archived"`
	Favorite *bool   `json:"favorite"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Excerpt   string    `json:"excerpt"`
	Pinned    bool      `json:"pinned"`
	Archived  bool      `json:"archived"`
	Favorite  bool      `json:"favorite"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NotesListResponse struct {
	Notes []NoteResponse `json:"notes"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type ShareNoteRequest struct {
	Username string `json:"username"`
	CanEdit  bool   `json:"can_edit"`
}

type ShareResponse struct {
	ID         string    `json:"id"`
	SharedWith string    `json:"shared_with"`
	CanEdit    bool      `json:"can_edit"`
	CreatedAt  time.Time `json:"created_at"`
}

type SharesListResponse struct {
	Shares []ShareResponse `json:"shares"`
}
