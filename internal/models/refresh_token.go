package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted record behind a refresh token. The raw token
// and its id never touch the database; only a SHA-256 hash of the id is
// stored. ParentTokenIDHash links a rotated record to the one it replaced,
// forming the lineage chain rooted at the record created on login.
type RefreshToken struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenIDHash       string     `gorm:"uniqueIndex;not null;size:64" json:"-"`
	ParentTokenIDHash *string    `gorm:"size:64;index" json:"-"`
	DeviceInfo        string     `gorm:"size:255" json:"device_info"`
	OriginAddress     string     `gorm:"size:64" json:"origin_address"`
	ExpiresAt         time.Time  `gorm:"not null" json:"expires_at"`
	Revoked           bool       `gorm:"default:false" json:"revoked"`
	RevokedAt         *time.Time `json:"revoked_at"`
	LastUsedAt        *time.Time `json:"last_used_at"`
	CreatedAt         time.Time  `json:"created_at"`
	User              User       `gorm:"foreignKey:UserID" json:"-"`
}
