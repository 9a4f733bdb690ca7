package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/auth"
	"github.com/thienng-it/note-hub-sub010/internal/dto"
	"github.com/thienng-it/note-hub-sub010/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken       = errors.New("username already registered")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrWeakPassword        = errors.New("password must be at least 8 characters")
	ErrDatabaseUnavailable = errors.New("database unavailable")
)

// AuthService handles credential verification and delegates all token work to
// the token authority.
type AuthService struct {
	db        *gorm.DB
	authority *auth.Authority
}

func NewAuthService(db *gorm.DB, authority *auth.Authority) *AuthService {
	return &AuthService{db: db, authority: authority}
}

func (s *AuthService) Register(req *dto.RegisterRequest, deviceInfo, originAddress string) (*dto.AuthResponse, error) {
	if s.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	if req.Username == "" {
		return nil, errors.New("username is required")
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}

	var existing models.User
	if err := s.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issuePair(&user, deviceInfo, originAddress)
}

func (s *AuthService) Login(req *dto.LoginRequest, deviceInfo, originAddress string) (*dto.AuthResponse, error) {
	if s.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login", now)
	user.LastLogin = &now

	return s.issuePair(&user, deviceInfo, originAddress)
}

// Refresh drives the rotation engine against the presented refresh token.
func (s *AuthService) Refresh(req *dto.RefreshRequest, deviceInfo, originAddress string) (*dto.RefreshResponse, error) {
	result, err := s.authority.Refresh(req.RefreshToken, deviceInfo, originAddress)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		Rotated:      result.Rotated,
	}, nil
}

// Logout revokes the record behind the presented refresh token. Idempotent; a
// malformed or already-revoked token still logs out cleanly.
func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	claims, err := s.authority.VerifyRefreshClaims(req.RefreshToken)
	if err != nil || claims.Legacy {
		return nil
	}
	return s.authority.Revoke(claims.TokenID)
}

// LogoutAll revokes every active session for the user.
func (s *AuthService) LogoutAll(userID uuid.UUID) error {
	return s.authority.RevokeAll(userID)
}

// Sessions lists the user's active sessions for the session-management UI.
func (s *AuthService) Sessions(userID uuid.UUID) ([]auth.Session, error) {
	return s.authority.ListActive(userID)
}

func (s *AuthService) issuePair(user *models.User, deviceInfo, originAddress string) (*dto.AuthResponse, error) {
	pair, err := s.authority.Issue(user.ID, deviceInfo, originAddress)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User: dto.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			Role:      user.Role,
			Theme:     user.Theme,
			Bio:       user.Bio,
			LastLogin: user.LastLogin,
		},
	}, nil
}
