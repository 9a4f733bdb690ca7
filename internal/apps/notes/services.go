package notes

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNoteNotFound     = errors.New("note not found")
	ErrNotOwner         = errors.New("you can only modify your own notes")
	ErrShareUserUnknown = errors.New("user not found")
	ErrShareSelf        = errors.New("you cannot share a note with yourself")
	ErrAlreadyShared    = errors.New("note is already shared with this user")
	ErrShareNotFound    = errors.New("share not found")
)

const excerptLength = 140

type NoteService struct {
	db *gorm.DB
}

func NewNoteService(db *gorm.DB) *NoteService {
	return &NoteService{db: db}
}

// ListNotes returns the notes for a given view: all (unarchived), pinned,
// favorites, archived, or shared (notes other users shared with the
// requester). An optional query matches against the title.
func (s *NoteService) ListNotes(ownerID uuid.UUID, view, query string, page, limit int) ([]Note, int64, error) {
	var q *gorm.DB

	switch view {
	case "shared":
		q = s.db.Model(&Note{}).
			Joins("JOIN note_shares ON note_shares.note_id = notes.id").
			Where("note_shares.shared_with_id = ?", ownerID)
	case "archived":
		q = s.db.Model(&Note{}).Where("owner_id = ? AND archived = true", ownerID)
	case "pinned":
		q = s.db.Model(&Note{}).Where("owner_id = ? AND pinned = true AND archived = false", ownerID)
	case "favorites":
		q = s.db.Model(&Note{}).Where("owner_id = ? AND favorite = true AND archived = false", ownerID)
	default:
		q = s.db.Model(&Note{}).Where("owner_id = ? AND archived = false", ownerID)
	}

	if query != "" {
		q = q.Where("title ILIKE ?", "%"+query+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	var out []Note
	err := q.Order("pinned DESC, updated_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	return out, total, nil
}

// GetNote returns a note the requester owns or has had shared with them.
func (s *NoteService) GetNote(requesterID, noteID uuid.UUID) (*Note, error) {
	var note Note
	if err := s.db.First(&note, "id = ?", noteID).Error; err != nil {
		return nil, ErrNoteNotFound
	}
	if note.OwnerID == requesterID {
		return &note, nil
	}
	if _, err := s.findShare(noteID, requesterID); err != nil {
		return nil, ErrNotOwner
	}
	return &note, nil
}

// getOwned resolves a note only when the requester is its owner. Mutating
// operations other than shared edits go through here.
func (s *NoteService) getOwned(ownerID, noteID uuid.UUID) (*Note, error) {
	var note Note
	if err := s.db.First(&note, "id = ?", noteID).Error; err != nil {
		return nil, ErrNoteNotFound
	}
	if note.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return &note, nil
}

func (s *NoteService) findShare(noteID, sharedWithID uuid.UUID) (*NoteShare, error) {
	var share NoteShare
	err := s.db.First(&share, "note_id = ? AND shared_with_id = ?", noteID, sharedWithID).Error
	if err != nil {
		return nil, err
	}
	return &share, nil
}

func (s *NoteService) CreateNote(ownerID uuid.UUID, title, body string) (*Note, error) {
	if title == "" {
		title = "Untitled"
	}
	note := Note{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   title,
		Body:    body,
	}
	if err := s.db.Create(&note).Error; err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return &note, nil
}

func (s *NoteService) UpdateNote(requesterID, noteID uuid.UUID, req *UpdateNoteRequest) (*Note, error) {
	note, err := s.getOwned(requesterID, noteID)
	isOwner := err == nil
	if errors.Is(err, ErrNotOwner) {
		// Shared editors may change the content, not the owner's
		// organisation flags.
		share, shareErr := s.findShare(noteID, requesterID)
		if shareErr != nil || !share.CanEdit {
			return nil, ErrNotOwner
		}
		note, err = s.GetNote(requesterID, noteID)
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if isOwner {
		if req.Pinned != nil {
			updates["pinned"] = *req.Pinned
		}
		if req.Archived != nil {
			updates["archived"] = *req.Archived
		}
		if req.Favorite != nil {
			updates["favorite"] = *req.Favorite
		}
	}
	if len(updates) == 0 {
		return note, nil
	}

	if err := s.db.Model(note).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

func (s *NoteService) DeleteNote(ownerID, noteID uuid.UUID) error {
	note, err := s.getOwned(ownerID, noteID)
	if err != nil {
		return err
	}
	return s.db.Delete(note).Error
}

// ShareNote grants another user, looked up by username, access to an owned
// note. Sharing with yourself or sharing the same note twice is rejected.
func (s *NoteService) ShareNote(ownerID, noteID uuid.UUID, username string, canEdit bool) (*NoteShare, error) {
	if _, err := s.getOwned(ownerID, noteID); err != nil {
		return nil, err
	}

	var target models.User
	if err := s.db.First(&target, "username = ?", username).Error; err != nil {
		return nil, ErrShareUserUnknown
	}
	if target.ID == ownerID {
		return nil, ErrShareSelf
	}
	if _, err := s.findShare(noteID, target.ID); err == nil {
		return nil, ErrAlreadyShared
	}

	share := NoteShare{
		ID:           uuid.New(),
		NoteID:       noteID,
		SharedByID:   ownerID,
		SharedWithID: target.ID,
		CanEdit:      canEdit,
	}
	if err := s.db.Create(&share).Error; err != nil {
		return nil, fmt.Errorf("failed to share note: %w", err)
	}
	share.SharedWith = target
	return &share, nil
}

// ListShares returns the shares on an owned note, recipient preloaded.
func (s *NoteService) ListShares(ownerID, noteID uuid.UUID) ([]NoteShare, error) {
	if _, err := s.getOwned(ownerID, noteID); err != nil {
		return nil, err
	}
	var shares []NoteShare
	err := s.db.Preload("SharedWith").
		Where("note_id = ?", noteID).
		Order("created_at ASC").
		Find(&shares).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	return shares, nil
}

// Unshare removes a share from an owned note.
func (s *NoteService) Unshare(ownerID, noteID, shareID uuid.UUID) error {
	if _, err := s.getOwned(ownerID, noteID); err != nil {
		return err
	}
	res := s.db.Where("id = ? AND note_id = ?", shareID, noteID).Delete(&NoteShare{})
	if res.Error != nil {
		return fmt.Errorf("failed to unshare note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrShareNotFound
	}
	return nil
}

// excerpt truncates the body to a short preview on a rune boundary.
func excerpt(body string) string {
	if utf8.RuneCountInString(body) <= excerptLength {
		return body
	}
	runes := []rune(body)
	return string(runes[:excerptLength]) + "…"
}
