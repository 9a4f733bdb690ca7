package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSigner() *Signer {
	return NewSigner("test-secret", 24*time.Hour, 168*time.Hour)
}

func TestSignAccess_VerifyRoundtrip(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	ownerID := uuid.New()

	token, err := s.SignAccess(ownerID, time.Now())
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.Equal(t, ownerID.String(), claims.Subject)
	assert.Empty(t, claims.ID)
}

func TestSignRefresh_CarriesTokenID(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	ownerID := uuid.New()
	tokenID := uuid.NewString()

	token, err := s.SignRefresh(ownerID, tokenID, time.Now())
	require.NoError(t, err)

	claims, err := s.VerifyRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, ownerID, claims.OwnerID)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.False(t, claims.Legacy)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, err := s.SignAccess(uuid.New(), time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	for _, tokenStr := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30."} {
		_, err := s.Verify(tokenStr)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", tokenStr)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := newTestSigner().SignAccess(uuid.New(), time.Now())
	require.NoError(t, err)

	other := NewSigner("other-secret", 24*time.Hour, 168*time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRefresh_RejectsAccessKind(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, err := s.SignAccess(uuid.New(), time.Now())
	require.NoError(t, err)

	_, err = s.VerifyRefresh(token)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestVerifyRefresh_ExpiredMapsToRefreshExpiry(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	token, err := s.SignRefresh(uuid.New(), uuid.NewString(), time.Now().Add(-(s.RefreshTTL()+time.Hour)))
	require.NoError(t, err)

	_, err = s.VerifyRefresh(token)
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestVerifyRefresh_LegacyVariant(t *testing.T) {
	t.Parallel()

	s := newTestSigner()
	// Tokens minted before lineage tracking carry no token id.
	token, err := s.SignRefresh(uuid.New(), "", time.Now())
	require.NoError(t, err)

	claims, err := s.VerifyRefresh(token)
	require.NoError(t, err)
	assert.True(t, claims.Legacy)
	assert.Empty(t, claims.TokenID)
}
