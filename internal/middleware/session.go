package middleware

import (
	"strings"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/gofiber/fiber/v3"
)

// SessionConfig configures the API session middleware.
type SessionConfig struct {
	Identity   port.IdentityProvider
	CookieName string
	Configured bool
	DevBypass  bool
}

// SessionMiddleware creates a Fiber middleware that validates the session
// token on API requests and injects the UserContext and RoleRecord into the
// request locals. The role record is resolved fresh on every request; there
// is no cross-request cache.
func SessionMiddleware(cfg SessionConfig) fiber.Handler {
	return func(c fiber.Ctx) error {
		if cfg.DevBypass {
			c.Locals("user", &domain.UserContext{UserID: "dev", Email: "dev@localhost"})
			c.Locals("role", &domain.RoleRecord{Authorized: true, Role: "admin", IsAdmin: true, DisplayName: "Dev"})
			return c.Next()
		}

		if !cfg.Configured {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "authentication not configured",
			})
		}

		token := TokenFromRequest(c, cfg.CookieName)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization",
			})
		}

		user, err := cfg.Identity.ValidateToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired session",
			})
		}

		// Role lookup failures are not authentication failures: the request
		// proceeds with no role and handlers deny by default.
		role, err := cfg.Identity.GetRole(c.Context(), token)
		if err != nil {
			role = nil
		}

		c.Locals("user", &domain.UserContext{UserID: user.ID, Email: user.Email})
		c.Locals("role", role)
		c.Locals("token", token)

		return c.Next()
	}
}

// TokenFromRequest extracts the session token from the Authorization header,
// the session cookie, or a ?token= query parameter (for embedded resources
// that cannot set headers), in that order.
func TokenFromRequest(c fiber.Ctx, cookieName string) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie := c.Cookies(cookieName); cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// GetUserContext extracts the UserContext from Fiber locals.
func GetUserContext(c fiber.Ctx) *domain.UserContext {
	u, ok := c.Locals("user").(*domain.UserContext)
	if !ok {
		return nil
	}
	return u
}

// GetRoleRecord extracts the resolved RoleRecord from Fiber locals.
// Nil means no authorized role; callers deny by default.
func GetRoleRecord(c fiber.Ctx) *domain.RoleRecord {
	r, ok := c.Locals("role").(*domain.RoleRecord)
	if !ok {
		return nil
	}
	return r
}
