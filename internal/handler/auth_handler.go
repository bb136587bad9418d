package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/middleware"
	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/bmp-ai/brandhub/internal/service"
	"github.com/gofiber/fiber/v3"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	auditor     middleware.AuditWriter
	cookieName  string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService, auditor middleware.AuditWriter, cookieName string) *AuthHandler {
	return &AuthHandler{authService: authService, auditor: auditor, cookieName: cookieName}
}

// Register sets up auth routes. These stay outside the session middleware:
// they must work for requests that carry no valid session yet.
func (h *AuthHandler) Register(app *fiber.App) {
	auth := app.Group("/api/v1/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/session", h.Session)
}

// Login authenticates credentials and establishes the session cookie.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Redirect string `json:"redirect"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}

	result, err := h.authService.SignIn(c.Context(), body.Email, body.Password, body.Redirect)
	if err != nil {
		if errors.Is(err, port.ErrUnauthorized) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid email or password"})
		}
		return fail(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    result.Session.AccessToken,
		Expires:  time.Unix(result.Session.ExpiresAt, 0),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	h.writeAudit(c, result.Session.User.ID, domain.AuditActionLogin)

	return c.JSON(fiber.Map{
		"access_token": result.Session.AccessToken,
		"expires_at":   result.Session.ExpiresAt,
		"state":        result.State,
		"redirect_to":  result.RedirectTo,
	})
}

// Logout revokes the session and clears the cookie.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token := middleware.TokenFromRequest(c, h.cookieName)
	h.authService.SignOut(c.Context(), token)
	h.writeAudit(c, "", domain.AuditActionLogout)

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HTTPOnly: true,
	})

	return c.JSON(fiber.Map{"ok": true})
}

// Session resolves the bootstrap state for the current request's credential.
// Absent or invalid tokens are a normal outcome here, not an error.
func (h *AuthHandler) Session(c fiber.Ctx) error {
	token := middleware.TokenFromRequest(c, h.cookieName)
	state := h.authService.Resolve(c.Context(), token)
	return c.JSON(state)
}

func (h *AuthHandler) writeAudit(c fiber.Ctx, userID, action string) {
	if h.auditor == nil {
		return
	}
	if userID == "" {
		userID = "anonymous"
	}
	if err := h.auditor.WriteAudit(userID, action, "session", "", "", c.IP(), c.Get("User-Agent")); err != nil {
		slog.Error("failed to write auth audit log", "error", err)
	}
}
