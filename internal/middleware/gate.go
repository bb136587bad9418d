package middleware

import (
	"strings"

	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/bmp-ai/brandhub/internal/tenant"
	"github.com/gofiber/fiber/v3"
)

// GateConfig configures the access gate.
type GateConfig struct {
	Resolver    *tenant.Resolver
	PublicPaths []string // exact-match allow-list of effective paths
	Identity    port.IdentityProvider
	CookieName  string
	LoginPath   string

	// Configured reports whether the identity provider is usable. When
	// false the gate fails closed: every protected path redirects to login.
	Configured bool

	// DevBypass disables the session check entirely. Explicit opt-in for
	// local development only.
	DevBypass bool
}

// AccessGate is the request-scoped edge gate. For every page request it
// resolves the tenant subdomain, rewrites to the tenant-qualified effective
// path, and enforces authentication on protected paths. It holds no state
// across requests; every decision derives from the request's host, path,
// and cookies plus one provider call.
func AccessGate(cfg GateConfig) fiber.Handler {
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, p := range cfg.PublicPaths {
		public[p] = struct{}{}
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	return func(c fiber.Ctx) error {
		path := c.Path()

		// Internal assets, API routes, and static files never reach the gate.
		if strings.HasPrefix(path, "/api") ||
			strings.HasPrefix(path, "/static") ||
			strings.Contains(path, ".") {
			return c.Next()
		}

		sub := cfg.Resolver.Subdomain(c.Hostname())
		effectivePath := tenant.EffectivePath(sub, path)
		_, isPublic := public[effectivePath]

		// Public path on the bare domain: nothing to do.
		if isPublic && sub == "" {
			return c.Next()
		}

		// Subdomain requests are rewritten to the effective path; the URL in
		// the browser stays the same. The resolved tenant is published for
		// downstream consumers (audit, handlers).
		if sub != "" {
			c.Locals("tenant", sub)
			c.Path(effectivePath)
		}

		// A public path is public regardless of the subdomain rewrite.
		if isPublic {
			return c.Next()
		}

		if cfg.DevBypass {
			return c.Next()
		}

		// Authentication check, fail closed: missing configuration, absent
		// cookie, and any validation failure all end at the login page with
		// the original destination preserved.
		token := c.Cookies(cfg.CookieName)
		if !cfg.Configured || token == "" {
			return redirectToLogin(c, cfg.LoginPath, effectivePath)
		}
		if _, err := cfg.Identity.ValidateToken(c.Context(), token); err != nil {
			return redirectToLogin(c, cfg.LoginPath, effectivePath)
		}

		// The gate authenticates but does not authorize per tenant; handlers
		// run the entitlement check before rendering protected data.
		return c.Next()
	}
}

func redirectToLogin(c fiber.Ctx, loginPath, effectivePath string) error {
	return c.Redirect().Status(fiber.StatusFound).To(loginPath + "?redirect=" + effectivePath)
}
