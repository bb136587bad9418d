package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/bmp-ai/brandhub/internal/service"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authApp(identity port.IdentityProvider) *fiber.App {
	app := fiber.New()
	NewAuthHandler(service.NewAuthService(identity, time.Second), nil, "bh_token").Register(app)
	return app
}

func postJSON(app *fiber.App, path, body string) (*http.Response, error) {
	req := httptest.NewRequest("POST", "http://bmp.ai"+path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return app.Test(req)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	identity := &fakeIdentity{
		session: &domain.Session{
			AccessToken: "fresh-token",
			ExpiresAt:   time.Now().Add(time.Hour).Unix(),
			User:        domain.SessionUser{ID: "u1", Email: "u1@example.com"},
		},
		role: &domain.RoleRecord{Authorized: true, Role: "partner", PartnerSlug: "hahmshout"},
	}
	app := authApp(identity)

	resp, err := postJSON(app, "/api/v1/auth/login", `{"email":"u1@example.com","password":"pw"}`)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, cookie, "bh_token=fresh-token")
	assert.Contains(t, cookie, "HttpOnly")
}

func TestLoginInvalidCredentials(t *testing.T) {
	app := authApp(&fakeIdentity{signInErr: port.ErrUnauthorized})

	resp, err := postJSON(app, "/api/v1/auth/login", `{"email":"u1@example.com","password":"wrong"}`)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRequiresCredentials(t *testing.T) {
	app := authApp(&fakeIdentity{})

	resp, err := postJSON(app, "/api/v1/auth/login", `{"email":"u1@example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestLogoutClearsCookie(t *testing.T) {
	app := authApp(&fakeIdentity{})

	resp, err := postJSON(app, "/api/v1/auth/logout", `{}`)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, cookie, "bh_token=")
}

func TestSessionEndpointWithoutToken(t *testing.T) {
	app := authApp(&fakeIdentity{})

	req := httptest.NewRequest("GET", "http://bmp.ai/api/v1/auth/session", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
