package notes

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thienng-it/note-hub-sub010/internal/auth"
	"github.com/thienng-it/note-hub-sub010/internal/config"
)

// newShareTestApp mounts the plugin routes behind a middleware that plants
// the given user's claims in context, mirroring what the JWT gateway does.
func newShareTestApp(userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals("user", &jwt.Token{
				Claims: jwt.MapClaims{"kind": auth.KindAccess, "sub": userID.String()},
				Valid:  true,
			})
		}
		return c.Next()
	})
	New().RegisterRoutes(app, nil, &config.Config{})
	return app
}

func TestShare_RequiresAuthentication(t *testing.T) {
	t.Parallel()

	app := newShareTestApp(uuid.Nil)

	for _, r := range []struct{ method, path string }{
		{"POST", "/notes/" + uuid.NewString() + "/share"},
		{"GET", "/notes/" + uuid.NewString() + "/shares"},
		{"DELETE", "/notes/" + uuid.NewString() + "/shares/" + uuid.NewString()},
	} {
		req := httptest.NewRequest(r.method, r.path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", r.method, r.path)
	}
}

func TestShare_RejectsInvalidNoteID(t *testing.T) {
	t.Parallel()

	app := newShareTestApp(uuid.New())

	req := httptest.NewRequest("POST", "/notes/not-a-uuid/share",
		strings.NewReader(`{"username":"friend"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestShare_RequiresUsername(t *testing.T) {
	t.Parallel()

	app := newShareTestApp(uuid.New())

	for _, body := range []string{`{}`, `{"username":""}`, `not json`} {
		req := httptest.NewRequest("POST", "/notes/"+uuid.NewString()+"/share",
			strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body %q", body)
	}
}

func TestUnshare_RejectsInvalidShareID(t *testing.T) {
	t.Parallel()

	app := newShareTestApp(uuid.New())

	req := httptest.NewRequest("DELETE", "/notes/"+uuid.NewString()+"/shares/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
