package auth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/thienng-it/note-hub-sub010/internal/models"
)

// Refresh exchanges a presented refresh token for a new access/refresh pair.
// The presented token is evaluated in a fixed order: signature and expiry,
// legacy adoption, record lookup, reuse detection, record expiry, rotation.
// Every expected outcome is a typed error; concurrent refreshes of the same
// token resolve to exactly one winner.
func (a *Authority) Refresh(token, deviceInfo, originAddress string) (*RefreshResult, error) {
	claims, err := a.signer.VerifyRefresh(token)
	if err != nil {
		return nil, err
	}

	if a.mode == StoreDegraded {
		slog.Warn("refresh served without rotation, token store degraded",
			"action", "token_store_degraded", "user_id", claims.OwnerID.String())
		pair, err := a.mintPair(claims.OwnerID, "")
		if err != nil {
			return nil, err
		}
		return &RefreshResult{Pair: *pair, Rotated: false}, nil
	}

	if claims.Legacy {
		return a.adoptLegacy(claims, deviceInfo, originAddress)
	}

	hash := HashTokenID(claims.TokenID)
	rec, err := a.store.FindByTokenIDHash(hash)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrInvalidRefreshToken
	}
	if rec.Revoked {
		return nil, a.handleReuse(rec)
	}
	if a.now().After(rec.ExpiresAt) {
		return nil, ErrRefreshTokenExpired
	}

	return a.rotate(rec, deviceInfo, originAddress)
}

// rotate creates the successor record and revokes the predecessor in one
// store operation. A rotation conflict means a concurrent refresh already
// consumed the predecessor, which is indistinguishable from replaying a spent
// token and takes the reuse path.
func (a *Authority) rotate(rec *models.RefreshToken, deviceInfo, originAddress string) (*RefreshResult, error) {
	now := a.now()
	newTokenID := uuid.NewString()
	successor := &models.RefreshToken{
		ID:                uuid.New(),
		UserID:            rec.UserID,
		TokenIDHash:       HashTokenID(newTokenID),
		ParentTokenIDHash: &rec.TokenIDHash,
		DeviceInfo:        deviceInfo,
		OriginAddress:     originAddress,
		ExpiresAt:         now.Add(a.signer.RefreshTTL()),
	}

	if err := a.store.Rotate(rec.TokenIDHash, successor, now); err != nil {
		if errors.Is(err, ErrRotationConflict) {
			return nil, a.handleReuse(rec)
		}
		return nil, err
	}

	pair, err := a.mintPair(rec.UserID, newTokenID)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{Pair: *pair, Rotated: true}, nil
}

// adoptLegacy migrates a pre-lineage refresh token: instead of rejecting it,
// rotation issues a brand-new lineage root so older clients keep working.
func (a *Authority) adoptLegacy(claims *RefreshClaims, deviceInfo, originAddress string) (*RefreshResult, error) {
	now := a.now()
	newTokenID := uuid.NewString()
	rec := &models.RefreshToken{
		ID:            uuid.New(),
		UserID:        claims.OwnerID,
		TokenIDHash:   HashTokenID(newTokenID),
		DeviceInfo:    deviceInfo,
		OriginAddress: originAddress,
		ExpiresAt:     now.Add(a.signer.RefreshTTL()),
	}
	if err := a.store.Put(rec); err != nil {
		return nil, err
	}

	pair, err := a.mintPair(claims.OwnerID, newTokenID)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{Pair: *pair, Rotated: true}, nil
}

// handleReuse is the security-critical branch: a spent token was presented
// again, which can only happen if it was copied. Every session for the owner
// is revoked, forcing re-authentication on all devices, and the event is
// audit logged.
func (a *Authority) handleReuse(rec *models.RefreshToken) error {
	slog.Error("refresh token reuse detected, revoking all sessions for owner",
		"action", "token_reuse_detected",
		"user_id", rec.UserID.String(),
		"token_record_id", rec.ID.String())
	sentry.CaptureMessage(fmt.Sprintf("refresh token reuse detected for user %s", rec.UserID))

	if err := a.store.RevokeAllForOwner(rec.UserID, a.now()); err != nil {
		slog.Error("failed to revoke sessions after reuse detection",
			"user_id", rec.UserID.String(), "error", err.Error())
	}
	return ErrTokenReuseDetected
}

func (a *Authority) mintPair(ownerID uuid.UUID, tokenID string) (*Pair, error) {
	now := a.now()
	accessToken, err := a.signer.SignAccess(ownerID, now)
	if err != nil {
		return nil, err
	}
	if tokenID == "" {
		tokenID = uuid.NewString()
	}
	refreshToken, err := a.signer.SignRefresh(ownerID, tokenID, now)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
