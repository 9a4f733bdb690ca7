package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thienng-it/note-hub-sub010/internal/models"
)

// failingStore simulates an unreachable durable store: every operation
// reports a connectivity failure.
type failingStore struct{}

func (failingStore) Put(*models.RefreshToken) error { return ErrStoreUnavailable }
func (failingStore) FindByTokenIDHash(string) (*models.RefreshToken, error) {
	return nil, ErrStoreUnavailable
}
func (failingStore) Rotate(string, *models.RefreshToken, time.Time) error {
	return ErrStoreUnavailable
}
func (failingStore) Revoke(string, time.Time) error    { return ErrStoreUnavailable }
func (failingStore) RevokeAllForOwner(uuid.UUID, time.Time) error { return ErrStoreUnavailable }
func (failingStore) ListActive(uuid.UUID) ([]models.RefreshToken, error) {
	return nil, ErrStoreUnavailable
}
func (failingStore) PurgeExpired(time.Time) (int64, error) { return 0, ErrStoreUnavailable }

func newTestAuthority(store TokenStore, mode Availability) *Authority {
	return NewAuthority(newTestSigner(), store, mode)
}

func TestIssueAndValidateAccess(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(NewMemoryStore(), StoreAvailable)
	ownerID := uuid.New()

	pair, err := a.Issue(ownerID, "test-device", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	got, err := a.ValidateAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
}

func TestIssue_PersistsLineageRoot(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	a := newTestAuthority(store, StoreAvailable)
	ownerID := uuid.New()

	pair, err := a.Issue(ownerID, "device", "10.0.0.1")
	require.NoError(t, err)

	claims, err := a.VerifyRefreshClaims(pair.RefreshToken)
	require.NoError(t, err)

	rec, err := store.FindByTokenIDHash(HashTokenID(claims.TokenID))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, ownerID, rec.UserID)
	assert.Nil(t, rec.ParentTokenIDHash, "login record must be a lineage root")
	assert.False(t, rec.Revoked)
	assert.Equal(t, "device", rec.DeviceInfo)
	assert.Equal(t, "10.0.0.1", rec.OriginAddress)
}

func TestValidateAccess_RejectsRefreshToken(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(NewMemoryStore(), StoreAvailable)
	pair, err := a.Issue(uuid.New(), "", "")
	require.NoError(t, err)

	_, err = a.ValidateAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccess_MalformedDoesNotPanic(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(NewMemoryStore(), StoreAvailable)
	_, err := a.ValidateAccess("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

// Access validation is stateless: the store being down must not change the
// outcome for a structurally valid, unexpired token.
func TestValidateAccess_IgnoresStoreAvailability(t *testing.T) {
	t.Parallel()

	healthy := newTestAuthority(NewMemoryStore(), StoreAvailable)
	ownerID := uuid.New()
	pair, err := healthy.Issue(ownerID, "", "")
	require.NoError(t, err)

	broken := newTestAuthority(failingStore{}, StoreAvailable)
	got, err := broken.ValidateAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)

	degraded := newTestAuthority(failingStore{}, StoreDegraded)
	got, err = degraded.ValidateAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
}

// Issuance must survive a store failure: the pair is returned untracked.
func TestIssue_StoreFailureStillReturnsPair(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(failingStore{}, StoreAvailable)
	ownerID := uuid.New()

	pair, err := a.Issue(ownerID, "", "")
	require.NoError(t, err)

	got, err := a.ValidateAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
}

func TestDegradedMode_IssueAndRefreshStayUp(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(failingStore{}, StoreDegraded)
	ownerID := uuid.New()

	pair, err := a.Issue(ownerID, "", "")
	require.NoError(t, err)

	result, err := a.Refresh(pair.RefreshToken, "", "")
	require.NoError(t, err)
	assert.False(t, result.Rotated, "degraded refresh must not claim rotation")

	got, err := a.ValidateAccess(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, ownerID, got)
}

func TestDegradedMode_RevokesAreNoOps(t *testing.T) {
	t.Parallel()

	a := newTestAuthority(failingStore{}, StoreDegraded)

	assert.NoError(t, a.Revoke(uuid.NewString()))
	assert.NoError(t, a.RevokeAll(uuid.New()))

	_, err := a.ListActive(uuid.New())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRevoke_Idempotent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	a := newTestAuthority(store, StoreAvailable)
	ownerID := uuid.New()

	pair, err := a.Issue(ownerID, "", "")
	require.NoError(t, err)
	claims, err := a.VerifyRefreshClaims(pair.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, a.Revoke(claims.TokenID))
	require.NoError(t, a.Revoke(claims.TokenID), "revoking twice must not fail")
	require.NoError(t, a.Revoke(uuid.NewString()), "revoking an unknown id must not fail")

	rec, err := store.FindByTokenIDHash(HashTokenID(claims.TokenID))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Revoked)
	assert.NotNil(t, rec.RevokedAt)
}

func TestListActive_FiltersRevokedAndExpired(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	a := newTestAuthority(store, StoreAvailable)
	ownerID := uuid.New()

	pair1, err := a.Issue(ownerID, "laptop", "10.0.0.1")
	require.NoError(t, err)
	_, err = a.Issue(ownerID, "phone", "10.0.0.2")
	require.NoError(t, err)
	_, err = a.Issue(uuid.New(), "someone-else", "10.0.0.3")
	require.NoError(t, err)

	sessions, err := a.ListActive(ownerID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	claims, err := a.VerifyRefreshClaims(pair1.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, a.Revoke(claims.TokenID))

	sessions, err = a.ListActive(ownerID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "phone", sessions[0].DeviceInfo)
}

func TestPurgeExpired(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	a := newTestAuthority(store, StoreAvailable)
	ownerID := uuid.New()

	pair, err := a.Issue(ownerID, "", "")
	require.NoError(t, err)
	claims, err := a.VerifyRefreshClaims(pair.RefreshToken)
	require.NoError(t, err)
	hash := HashTokenID(claims.TokenID)

	// Age the record past its expiry.
	rec, err := store.FindByTokenIDHash(hash)
	require.NoError(t, err)
	rec.ExpiresAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Put(rec))

	count, err := a.PurgeExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec, err = store.FindByTokenIDHash(hash)
	require.NoError(t, err)
	assert.Nil(t, rec)
}
