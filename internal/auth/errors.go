package auth

import "errors"

var (
	// ErrTokenExpired is returned when a token's embedded expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenMalformed is returned when a token's structure or signature is invalid.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrInvalidToken is returned when a token is valid but of the wrong kind
	// for the operation (e.g. a refresh token presented as an access token).
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidRefreshToken is returned when a presented refresh token is
	// structurally invalid or has no matching record.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrRefreshTokenExpired is returned when a refresh token or its record is
	// past its expiry. No reuse implication; the session is simply stale.
	ErrRefreshTokenExpired = errors.New("refresh token has expired")
	// ErrTokenReuseDetected is returned when an already-rotated refresh token
	// is presented again. All sessions for the owner are revoked in response.
	ErrTokenReuseDetected = errors.New("refresh token reuse detected")

	// ErrStoreUnavailable is returned when the token store cannot be reached.
	ErrStoreUnavailable = errors.New("token store unavailable")
	// ErrRotationConflict is returned by TokenStore.Rotate when the
	// predecessor was already revoked, i.e. a concurrent refresh won the race.
	ErrRotationConflict = errors.New("refresh token rotation conflict")
)
