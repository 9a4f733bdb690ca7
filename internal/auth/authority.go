package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/models"
)

// Pair is an access/refresh token pair.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshResult is the outcome of a successful refresh. Rotated is false only
// in degraded mode, where the new pair is issued untracked.
type RefreshResult struct {
	Pair
	Rotated bool `json:"rotated"`
}

// Session describes an active refresh-token record for the session-management
// UI. The token itself is never exposed.
type Session struct {
	CreatedAt     time.Time  `json:"created_at"`
	LastUsedAt    *time.Time `json:"last_used_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	DeviceInfo    string     `json:"device_info"`
	OriginAddress string     `json:"origin_address"`
}

// Authority issues, validates, rotates and revokes the bearer-token pairs
// used to authenticate every request. It holds no per-session state; all
// cross-request state lives in the TokenStore.
type Authority struct {
	signer *Signer
	store  TokenStore
	mode   Availability
	now    func() time.Time
}

func NewAuthority(signer *Signer, store TokenStore, mode Availability) *Authority {
	if mode == StoreDegraded {
		slog.Warn("token store unavailable, running with reduced security posture",
			"action", "token_store_degraded",
			"detail", "rotation tracking, reuse detection and revocation are disabled")
	}
	return &Authority{
		signer: signer,
		store:  store,
		mode:   mode,
		now:    time.Now,
	}
}

// Mode reports the availability decided at startup.
func (a *Authority) Mode() Availability { return a.mode }

// Issue mints a fresh access/refresh pair for the owner and persists the
// refresh record as a new lineage root. It never fails on store trouble: a
// pair minted at login must work even when rotation tracking is down.
func (a *Authority) Issue(ownerID uuid.UUID, deviceInfo, originAddress string) (*Pair, error) {
	tokenID := uuid.NewString()
	pair, err := a.mintPair(ownerID, tokenID)
	if err != nil {
		return nil, err
	}

	if a.mode == StoreAvailable {
		now := a.now()
		rec := &models.RefreshToken{
			ID:            uuid.New(),
			UserID:        ownerID,
			TokenIDHash:   HashTokenID(tokenID),
			DeviceInfo:    deviceInfo,
			OriginAddress: originAddress,
			ExpiresAt:     now.Add(a.signer.RefreshTTL()),
		}
		if err := a.store.Put(rec); err != nil {
			slog.Warn("failed to persist refresh token record, pair issued untracked",
				"action", "token_store_degraded", "user_id", ownerID.String(), "error", err.Error())
		}
	}

	return pair, nil
}

// ValidateAccess verifies an access token and returns its owner. Stateless:
// signature and expiry only, no store access.
func (a *Authority) ValidateAccess(token string) (uuid.UUID, error) {
	claims, err := a.signer.Verify(token)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Kind != KindAccess {
		return uuid.Nil, ErrInvalidToken
	}
	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenMalformed
	}
	return ownerID, nil
}

// VerifyRefreshClaims decodes a presented refresh token without touching the
// store. Used by logout to recover the token id to revoke.
func (a *Authority) VerifyRefreshClaims(token string) (*RefreshClaims, error) {
	return a.signer.VerifyRefresh(token)
}

// Revoke marks the record for the given token id revoked. Idempotent; a no-op
// in degraded mode.
func (a *Authority) Revoke(tokenID string) error {
	if a.mode == StoreDegraded {
		slog.Warn("revoke skipped, token store degraded", "action", "token_store_degraded")
		return nil
	}
	return a.store.Revoke(HashTokenID(tokenID), a.now())
}

// RevokeAll revokes every active session for the owner, across all lineages.
func (a *Authority) RevokeAll(ownerID uuid.UUID) error {
	if a.mode == StoreDegraded {
		slog.Warn("revoke-all skipped, token store degraded",
			"action", "token_store_degraded", "user_id", ownerID.String())
		return nil
	}
	return a.store.RevokeAllForOwner(ownerID, a.now())
}

// ListActive returns the owner's live sessions.
func (a *Authority) ListActive(ownerID uuid.UUID) ([]Session, error) {
	if a.mode == StoreDegraded {
		return nil, ErrStoreUnavailable
	}
	recs, err := a.store.ListActive(ownerID)
	if err != nil {
		return nil, err
	}
	sessions := make([]Session, 0, len(recs))
	for _, rec := range recs {
		sessions = append(sessions, Session{
			CreatedAt:     rec.CreatedAt,
			LastUsedAt:    rec.LastUsedAt,
			ExpiresAt:     rec.ExpiresAt,
			DeviceInfo:    rec.DeviceInfo,
			OriginAddress: rec.OriginAddress,
		})
	}
	return sessions, nil
}

// PurgeExpired deletes records whose expiry has passed.
func (a *Authority) PurgeExpired() (int64, error) {
	if a.mode == StoreDegraded {
		return 0, nil
	}
	return a.store.PurgeExpired(a.now())
}

// StartPurge runs a daily retention pass over expired refresh-token records
// until done is closed.
func StartPurge(a *Authority, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				count, err := a.PurgeExpired()
				if err != nil && !errors.Is(err, ErrStoreUnavailable) {
					slog.Error("refresh token purge failed", "error", err.Error())
				} else if count > 0 {
					slog.Info("refresh token purge completed", "deleted", count)
				}
			case <-done:
				return
			}
		}
	}()
}
