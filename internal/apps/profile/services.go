package profile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/auth"
	"github.com/thienng-it/note-hub-sub010/internal/dto"
	"github.com/thienng-it/note-hub-sub010/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
	ErrInvalidTheme  = errors.New("theme must be light or dark")
)

var themes = []string{"light", "dark"}

type ProfileService struct {
	db        *gorm.DB
	authority *auth.Authority
}

func NewProfileService(db *gorm.DB, authority *auth.Authority) *ProfileService {
	return &ProfileService{db: db, authority: authority}
}

func (s *ProfileService) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s *ProfileService) UpdateProfile(userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Theme != nil {
		valid := false
		for _, t := range themes {
			if t == *req.Theme {
				valid = true
				break
			}
		}
		if !valid {
			return nil, ErrInvalidTheme
		}
		updates["theme"] = *req.Theme
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes every session for the user so stolen tokens die with the old
// credential.
func (s *ProfileService) ChangePassword(userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	if len(req.NewPassword) < 8 {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.authority.RevokeAll(userID)
}
