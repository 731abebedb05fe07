package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mertcakir/rigcheck/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	api := app.Group("/api", middleware.JWTProtected(secret))
	api.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"uid":      c.Locals("uid"),
			"username": c.Locals("username"),
			"role":     c.Locals("role"),
		})
	})
	api.Get("/admin", middleware.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestMissingTokenRejected(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMalformedAuthorizationHeaderRejected(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestValidTokenPasses(t *testing.T) {
	app := newApp()

	access, _, err := middleware.GenerateTokens("u1", "jdoe", "inspector", secret)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTokenSignedWithWrongSecretRejected(t *testing.T) {
	app := newApp()

	access, _, err := middleware.GenerateTokens("u1", "jdoe", "inspector", "other-secret")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnlyBlocksNonAdmins(t *testing.T) {
	app := newApp()

	access, _, err := middleware.GenerateTokens("u1", "jdoe", "inspector", secret)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminOnlyAllowsAdmins(t *testing.T) {
	app := newApp()

	access, _, err := middleware.GenerateTokens("u1", "boss", "admin", secret)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/admin", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
