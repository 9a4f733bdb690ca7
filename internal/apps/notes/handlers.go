package notes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/dto"
	"github.com/thienng-it/note-hub-sub010/internal/middleware"
)

type NoteHandler struct {
	noteService *NoteService
}

func NewNoteHandler(noteService *NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) List(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}

	list, total, err := h.noteService.ListNotes(ownerID, c.Query("view", "all"), c.Query("q"), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list notes",
		})
	}

	resp := NotesListResponse{Notes: make([]NoteResponse, 0, len(list)), Total: total, Page: page, Limit: limit}
	for i := range list {
		resp.Notes = append(resp.Notes, toResponse(&list[i]))
	}
	return c.JSON(resp)
}

func (h *NoteHandler) Get(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}

	note, err := h.noteService.GetNote(ownerID, noteID)
	if err != nil {
		return noteError(c, err)
	}
	return c.JSON(fiber.Map{"note": toResponse(note)})
}

func (h *NoteHandler) Create(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	note, err := h.noteService.CreateNote(ownerID, req.Title, req.Body)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create note",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"note": toResponse(note)})
}

func (h *NoteHandler) Update(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}

	var req UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	note, err := h.noteService.UpdateNote(ownerID, noteID, &req)
	if err != nil {
		return noteError(c, err)
	}
	return c.JSON(fiber.Map{"note": toResponse(note)})
}

func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}

	if err := h.noteService.DeleteNote(ownerID, noteID); err != nil {
		return noteError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Note deleted"})
}

func (h *NoteHandler) Share(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}

	var req ShareNoteRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Username is required",
		})
	}

	share, err := h.noteService.ShareNote(ownerID, noteID, req.Username, req.CanEdit)
	if err != nil {
		return shareError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"share": toShareResponse(share)})
}

func (h *NoteHandler) ListShares(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}

	shares, err := h.noteService.ListShares(ownerID, noteID)
	if err != nil {
		return shareError(c, err)
	}

	resp := SharesListResponse{Shares: make([]ShareResponse, 0, len(shares))}
	for i := range shares {
		resp.Shares = append(resp.Shares, toShareResponse(&shares[i]))
	}
	return c.JSON(resp)
}

func (h *NoteHandler) Unshare(c *fiber.Ctx) error {
	ownerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badID(c)
	}
	shareID, err := uuid.Parse(c.Params("shareId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid share id",
		})
	}

	if err := h.noteService.Unshare(ownerID, noteID, shareID); err != nil {
		return shareError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Note unshared"})
}

func toShareResponse(s *NoteShare) ShareResponse {
	return ShareResponse{
		ID:         s.ID.String(),
		SharedWith: s.SharedWith.Username,
		CanEdit:    s.CanEdit,
		CreatedAt:  s.CreatedAt,
	}
}

func shareError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrShareUserUnknown), errors.Is(err, ErrShareNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrShareSelf):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, ErrAlreadyShared):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return noteError(c, err)
	}
}

func toResponse(n *Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Body:      n.Body,
		Excerpt:   excerpt(n.Body),
		Pinned:    n.Pinned,
		Archived:  n.Archived,
		Favorite:  n.Favorite,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func noteError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Note not found",
		})
	case errors.Is(err, ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid note id",
	})
}
