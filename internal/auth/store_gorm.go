package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/models"
	"gorm.io/gorm"
)

// GormStore is the Postgres-backed TokenStore.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Put(rec *models.RefreshToken) error {
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *GormStore) FindByTokenIDHash(hash string) (*models.RefreshToken, error) {
	var rec models.RefreshToken
	err := s.db.Where("token_id_hash = ?", hash).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &rec, nil
}

// Rotate flips the predecessor to revoked with a conditional update and
// creates the successor in the same transaction. The WHERE revoked = false
// clause is the compare-and-swap that makes concurrent refreshes resolve to
// exactly one winner.
func (s *GormStore) Rotate(predecessorHash string, successor *models.RefreshToken, now time.Time) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("token_id_hash = ? AND revoked = false", predecessorHash).
			Updates(map[string]interface{}{
				"revoked":      true,
				"revoked_at":   now,
				"last_used_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrRotationConflict
		}
		if err := tx.Create(successor).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil
	})
	return err
}

func (s *GormStore) Revoke(hash string, now time.Time) error {
	res := s.db.Model(&models.RefreshToken{}).
		Where("token_id_hash = ? AND revoked = false", hash).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": now})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
	}
	return nil
}

func (s *GormStore) RevokeAllForOwner(ownerID uuid.UUID, now time.Time) error {
	res := s.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = false", ownerID).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": now})
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
	}
	return nil
}

func (s *GormStore) ListActive(ownerID uuid.UUID) ([]models.RefreshToken, error) {
	var recs []models.RefreshToken
	err := s.db.
		Where("user_id = ? AND revoked = false AND expires_at > ?", ownerID, time.Now()).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return recs, nil
}

func (s *GormStore) PurgeExpired(now time.Time) (int64, error) {
	res := s.db.Unscoped().Where("expires_at < ?", now).Delete(&models.RefreshToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, res.Error)
	}
	return res.RowsAffected, nil
}
