package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thienng-it/note-hub-sub010/internal/auth"
	"github.com/thienng-it/note-hub-sub010/internal/config"
)

// newAdminTestApp wires AdminRequired behind a middleware that plants the
// given claims in context the same way the JWT gateway does after verifying a
// signature.
func newAdminTestApp(cfg *config.Config, claims jwt.MapClaims) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if claims != nil {
			c.Locals("user", &jwt.Token{Claims: claims, Valid: true})
		}
		return c.Next()
	})
	app.Use(AdminRequired(nil, cfg))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func TestAdminRequired_ConfiguredUserID(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	cfg := &config.Config{AdminUserIDs: adminID.String()}
	app := newAdminTestApp(cfg, jwt.MapClaims{"kind": auth.KindAccess, "sub": adminID.String()})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// A refresh token must never grant admin, even for a configured admin user:
// the signature gateway accepts both kinds, so the kind check happens here.
func TestAdminRequired_RejectsRefreshKind(t *testing.T) {
	t.Parallel()

	adminID := uuid.New()
	cfg := &config.Config{AdminUserIDs: adminID.String()}
	app := newAdminTestApp(cfg, jwt.MapClaims{"kind": auth.KindRefresh, "sub": adminID.String()})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRequired_NonAdminForbidden(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{AdminUserIDs: uuid.NewString()}
	app := newAdminTestApp(cfg, jwt.MapClaims{"kind": auth.KindAccess, "sub": uuid.NewString()})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminRequired_MissingTokenUnauthorized(t *testing.T) {
	t.Parallel()

	app := newAdminTestApp(&config.Config{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRequired_StaticTokenHeader(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{AdminToken: "ops-secret"}
	app := newAdminTestApp(cfg, nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Admin-Token", "ops-secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
