package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/bmp-ai/brandhub/internal/tenant"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	validateErr error
	user        *domain.SessionUser
	role        *domain.RoleRecord
	roleErr     error
	lastToken   string
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeIdentity) ValidateToken(ctx context.Context, token string) (*domain.SessionUser, error) {
	f.lastToken = token
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	if f.user == nil {
		return &domain.SessionUser{ID: "u1", Email: "u1@example.com"}, nil
	}
	return f.user, nil
}

func (f *fakeIdentity) GetRole(ctx context.Context, token string) (*domain.RoleRecord, error) {
	f.lastToken = token
	return f.role, f.roleErr
}

func (f *fakeIdentity) SignOut(ctx context.Context, token string) error {
	return nil
}

func gateApp(identity port.IdentityProvider, configured bool) *fiber.App {
	resolver := tenant.NewResolver(
		[]string{"bmp.ai", "brand-hub-six.vercel.app"},
		map[string]string{"hamshout": "hahmshout"},
	)

	app := fiber.New()
	app.Use(AccessGate(GateConfig{
		Resolver:    resolver,
		PublicPaths: []string{"/", "/login", "/demo"},
		Identity:    identity,
		CookieName:  "bh_token",
		LoginPath:   "/login",
		Configured:  configured,
	}))

	app.Get("/", func(c fiber.Ctx) error { return c.SendString("home") })
	app.Get("/login", func(c fiber.Ctx) error { return c.SendString("login") })
	app.Get("/demo", func(c fiber.Ctx) error { return c.SendString("demo") })
	app.Get("/:partner", func(c fiber.Ctx) error {
		return c.SendString("partner:" + c.Params("partner"))
	})
	app.Get("/:partner/:client", func(c fiber.Ctx) error {
		return c.SendString("client:" + c.Params("partner") + "/" + c.Params("client"))
	})
	return app
}

func TestGatePublicPathsPassThrough(t *testing.T) {
	app := gateApp(&fakeIdentity{}, true)

	for _, path := range []string{"/", "/login", "/demo"} {
		req := httptest.NewRequest("GET", "http://bmp.ai"+path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
}

func TestGateSkipsAPIAndStaticPaths(t *testing.T) {
	identity := &fakeIdentity{validateErr: errors.New("never called")}
	app := gateApp(identity, true)
	app.Get("/api/v1/health", func(c fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/favicon.ico", func(c fiber.Ctx) error { return c.SendString("icon") })

	for _, path := range []string{"/api/v1/health", "/favicon.ico"} {
		req := httptest.NewRequest("GET", "http://bmp.ai"+path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}
	assert.Empty(t, identity.lastToken)
}

func TestGateRedirectsProtectedPathWithoutSession(t *testing.T) {
	app := gateApp(&fakeIdentity{}, true)

	req := httptest.NewRequest("GET", "http://bmp.ai/hahmshout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=/hahmshout", resp.Header.Get("Location"))
}

func TestGateRedirectPreservesTenantQualifiedPath(t *testing.T) {
	app := gateApp(&fakeIdentity{}, true)

	req := httptest.NewRequest("GET", "http://hahmshout.bmp.ai/samsung-hospital", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=/hahmshout/samsung-hospital", resp.Header.Get("Location"))
}

func TestGateRewritesSubdomainRequest(t *testing.T) {
	identity := &fakeIdentity{}
	app := gateApp(identity, true)

	req := httptest.NewRequest("GET", "http://hahmshout.bmp.ai/samsung-hospital", nil)
	req.AddCookie(&http.Cookie{Name: "bh_token", Value: "tok-1"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "client:hahmshout/samsung-hospital", bodyOf(t, resp))
	assert.Equal(t, "tok-1", identity.lastToken)
}

func TestGateRewritesSubdomainRootToPartnerPage(t *testing.T) {
	app := gateApp(&fakeIdentity{}, true)

	req := httptest.NewRequest("GET", "http://hahmshout.bmp.ai/", nil)
	req.AddCookie(&http.Cookie{Name: "bh_token", Value: "tok-1"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "partner:hahmshout", bodyOf(t, resp))
}

func TestGatePublicPathRemainsPublicUnderSubdomainRewrite(t *testing.T) {
	// "/" on a subdomain rewrites to "/<partner>", which is protected; but
	// "/login" on a subdomain is not on a base domain's allow-list either
	// once rewritten. The www host is equivalent to no subdomain, so its
	// public paths stay public.
	app := gateApp(&fakeIdentity{}, true)

	req := httptest.NewRequest("GET", "http://www.bmp.ai/login", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGateFailsClosedOnValidationError(t *testing.T) {
	app := gateApp(&fakeIdentity{validateErr: errors.New("identity provider down")}, true)

	req := httptest.NewRequest("GET", "http://hahmshout.bmp.ai/samsung-hospital", nil)
	req.AddCookie(&http.Cookie{Name: "bh_token", Value: "tok-1"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=/hahmshout/samsung-hospital", resp.Header.Get("Location"))
}

func TestGateFailsClosedWhenUnconfigured(t *testing.T) {
	app := gateApp(&fakeIdentity{}, false)

	req := httptest.NewRequest("GET", "http://bmp.ai/hahmshout", nil)
	req.AddCookie(&http.Cookie{Name: "bh_token", Value: "tok-1"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?redirect=/hahmshout", resp.Header.Get("Location"))
}

func TestGateDevBypassSkipsAuth(t *testing.T) {
	resolver := tenant.NewResolver([]string{"bmp.ai"}, nil)
	app := fiber.New()
	app.Use(AccessGate(GateConfig{
		Resolver:    resolver,
		PublicPaths: []string{"/"},
		Identity:    &fakeIdentity{validateErr: errors.New("never called")},
		CookieName:  "bh_token",
		Configured:  false,
		DevBypass:   true,
	}))
	app.Get("/:partner", func(c fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "http://bmp.ai/hahmshout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func bodyOf(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
