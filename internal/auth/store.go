package auth

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/models"
	"gorm.io/gorm"
)

// Availability is the token store's operating mode, decided once at startup
// by ProbeStore rather than inferred from error messages at call time.
type Availability int

const (
	// StoreAvailable means rotation tracking, reuse detection and revocation
	// are fully enforced.
	StoreAvailable Availability = iota
	// StoreDegraded means the durable store is unreachable or its schema is
	// absent. Authentication keeps working, but refresh tokens are untracked:
	// no rotation, no reuse detection, no revocation. Reduced security
	// posture, accepted for single-instance deployments.
	StoreDegraded
)

func (a Availability) String() string {
	if a == StoreDegraded {
		return "degraded"
	}
	return "available"
}

// TokenStore is the persistence boundary for refresh-token records.
// Implementations must distinguish "no such record" (nil, nil) from
// connectivity failures (wrapped ErrStoreUnavailable).
type TokenStore interface {
	Put(rec *models.RefreshToken) error
	FindByTokenIDHash(hash string) (*models.RefreshToken, error)
	// Rotate atomically revokes the predecessor record at the given instant
	// and creates its successor. It fails with ErrRotationConflict when the
	// predecessor is already revoked, which is how a concurrent refresh loser
	// observes the race.
	Rotate(predecessorHash string, successor *models.RefreshToken, now time.Time) error
	Revoke(hash string, now time.Time) error
	RevokeAllForOwner(ownerID uuid.UUID, now time.Time) error
	ListActive(ownerID uuid.UUID) ([]models.RefreshToken, error)
	PurgeExpired(now time.Time) (int64, error)
}

// HashTokenID derives the durable correlation key for a token id. One-way, so
// the store never holds a usable secret.
func HashTokenID(tokenID string) string {
	h := sha256.Sum256([]byte(tokenID))
	return fmt.Sprintf("%x", h)
}

// ProbeStore checks once, at startup, whether the durable token store can be
// used: the connection must answer a ping and the refresh_tokens table must
// exist.
func ProbeStore(db *gorm.DB) Availability {
	if db == nil {
		return StoreDegraded
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.Ping() != nil {
		return StoreDegraded
	}
	if !db.Migrator().HasTable(&models.RefreshToken{}) {
		return StoreDegraded
	}
	return StoreAvailable
}
