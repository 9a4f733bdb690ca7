package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// Claims is the signed payload shared by both token kinds. The token id
// (RegisteredClaims.ID) is set only on refresh tokens minted with lineage
// tracking.
type Claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// RefreshClaims is the decoded form of a presented refresh token. Legacy is
// true when the payload carries no token id, i.e. the token predates lineage
// tracking. The variant is decided once here, at decode time.
type RefreshClaims struct {
	OwnerID uuid.UUID
	TokenID string
	Legacy  bool
}

// Signer signs and verifies bearer tokens with a process-wide symmetric
// secret. It is a pure function of its inputs and the secret; verification
// never touches the store.
type Signer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSigner(secret string, accessTTL, refreshTTL time.Duration) *Signer {
	return &Signer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *Signer) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Signer) RefreshTTL() time.Duration { return s.refreshTTL }

// SignAccess mints a short-lived access token for the owner.
func (s *Signer) SignAccess(ownerID uuid.UUID, now time.Time) (string, error) {
	return s.sign(ownerID, KindAccess, "", now, s.accessTTL)
}

// SignRefresh mints a refresh token carrying the given token id. The id, not
// the token itself, is the durable correlation key for the stored record.
func (s *Signer) SignRefresh(ownerID uuid.UUID, tokenID string, now time.Time) (string, error) {
	return s.sign(ownerID, KindRefresh, tokenID, now, s.refreshTTL)
}

func (s *Signer) sign(ownerID uuid.UUID, kind, tokenID string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID.String(),
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the decoded claims. It fails
// with ErrTokenExpired past the embedded expiry and ErrTokenMalformed for any
// structural or signature problem.
func (s *Signer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// VerifyRefresh verifies a presented refresh token and decodes it into its
// tagged variant. Tokens of the wrong kind or with an unparseable subject are
// rejected as invalid refresh tokens; expiry maps to ErrRefreshTokenExpired.
func (s *Signer) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	claims, err := s.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, ErrRefreshTokenExpired
		}
		return nil, ErrInvalidRefreshToken
	}
	if claims.Kind != KindRefresh {
		return nil, ErrInvalidRefreshToken
	}
	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	return &RefreshClaims{
		OwnerID: ownerID,
		TokenID: claims.ID,
		Legacy:  claims.ID == "",
	}, nil
}
