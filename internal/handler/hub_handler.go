package handler

import (
	"fmt"
	"log/slog"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/middleware"
	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/bmp-ai/brandhub/internal/service"
	"github.com/bmp-ai/brandhub/internal/tenant"
	"github.com/gofiber/fiber/v3"
)

// HubHandler serves the hub directory, partner hubs, and client dashboards,
// both as gate-protected page routes and as API routes.
type HubHandler struct {
	hubService  *service.HubService
	authService *service.AuthService
	auditor     middleware.AuditWriter
	resolver    *tenant.Resolver
	cookieName  string
}

// NewHubHandler creates a new hub handler.
func NewHubHandler(hubService *service.HubService, authService *service.AuthService, auditor middleware.AuditWriter, resolver *tenant.Resolver, cookieName string) *HubHandler {
	return &HubHandler{hubService: hubService, authService: authService, auditor: auditor, resolver: resolver, cookieName: cookieName}
}

// RegisterPages sets up the page routes served behind the access gate.
// Static paths must be registered before the :partner parameter routes.
func (h *HubHandler) RegisterPages(app *fiber.App) {
	app.Get("/", h.Home)
	app.Get("/login", h.LoginPage)
	app.Get("/:partner", h.PartnerPage)
	app.Get("/:partner/:client", h.ClientPage)
}

// RegisterAPI sets up the hub API routes (behind the session middleware).
func (h *HubHandler) RegisterAPI(api fiber.Router) {
	hubs := api.Group("/hubs")
	hubs.Get("/", h.ListHubs)
	hubs.Get("/:partner", h.PartnerHub)
	hubs.Get("/:partner/clients", h.PartnerClients)
	hubs.Get("/:partner/clients/:client", h.ClientDashboard)
	hubs.Get("/:partner/clients/:client/moat", h.ClientMoat)
}

// Home serves the public hub directory.
func (h *HubHandler) Home(c fiber.Ctx) error {
	hubs, err := h.hubService.ListHubs(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"hubs": hubs})
}

// LoginPage describes the login view, echoing the post-login destination.
func (h *HubHandler) LoginPage(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":     "login",
		"redirect": c.Query("redirect"),
	})
}

// PartnerPage serves a partner hub page. The gate already authenticated the
// request; entitlement is checked here and 403 is distinct from 404.
func (h *HubHandler) PartnerPage(c fiber.Ctx) error {
	partner := h.resolver.CanonicalSlug(c.Params("partner"))

	state := h.pageState(c)
	if !state.CanAccess(partner, "") {
		return fail(c, fmt.Errorf("partner %q: %w", partner, port.ErrForbidden))
	}

	hub, err := h.hubService.PartnerHub(c.Context(), partner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(hub)
}

// ClientPage serves a client dashboard page.
func (h *HubHandler) ClientPage(c fiber.Ctx) error {
	partner := h.resolver.CanonicalSlug(c.Params("partner"))
	client := c.Params("client")

	state := h.pageState(c)
	if !state.CanAccess(partner, client) {
		return fail(c, fmt.Errorf("client %s/%s: %w", partner, client, port.ErrForbidden))
	}

	dashboard, err := h.hubService.ClientDashboard(c.Context(), partner, client)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dashboard)
}

// ListHubs returns the hub directory over the API.
func (h *HubHandler) ListHubs(c fiber.Ctx) error {
	hubs, err := h.hubService.ListHubs(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"hubs": hubs})
}

// PartnerHub returns one partner's hub data over the API.
func (h *HubHandler) PartnerHub(c fiber.Ctx) error {
	partner := h.resolver.CanonicalSlug(c.Params("partner"))

	if !middleware.GetRoleRecord(c).CanAccess(partner, "") {
		return fail(c, fmt.Errorf("partner %q: %w", partner, port.ErrForbidden))
	}

	hub, err := h.hubService.PartnerHub(c.Context(), partner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(hub)
}

// PartnerClients returns the registered clients of a partner.
func (h *HubHandler) PartnerClients(c fiber.Ctx) error {
	partner := h.resolver.CanonicalSlug(c.Params("partner"))

	if !middleware.GetRoleRecord(c).CanAccess(partner, "") {
		return fail(c, fmt.Errorf("partner %q: %w", partner, port.ErrForbidden))
	}

	clients, err := h.hubService.Clients(c.Context(), partner)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"clients": clients})
}

// ClientDashboard returns the composed dashboard for a (partner, client) pair.
func (h *HubHandler) ClientDashboard(c fiber.Ctx) error {
	partner := h.resolver.CanonicalSlug(c.Params("partner"))
	client := c.Params("client")

	if !middleware.GetRoleRecord(c).CanAccess(partner, client) {
		return fail(c, fmt.Errorf("client %s/%s: %w", partner, client, port.ErrForbidden))
	}

	dashboard, err := h.hubService.ClientDashboard(c.Context(), partner, client)
	if err != nil {
		return fail(c, err)
	}

	h.writeAudit(c, partner+"/"+client)

	return c.JSON(dashboard)
}

// ClientMoat returns the citation report HTML for embedding.
func (h *HubHandler) ClientMoat(c fiber.Ctx) error {
	partner := h.resolver.CanonicalSlug(c.Params("partner"))
	client := c.Params("client")

	if !middleware.GetRoleRecord(c).CanAccess(partner, client) {
		return fail(c, fmt.Errorf("client %s/%s: %w", partner, client, port.ErrForbidden))
	}

	html, err := h.hubService.ClientMoatReport(c.Context(), partner, client)
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(html)
}

func (h *HubHandler) writeAudit(c fiber.Ctx, resourceID string) {
	if h.auditor == nil {
		return
	}
	userID := "anonymous"
	if uc := middleware.GetUserContext(c); uc != nil {
		userID = uc.UserID
	}
	if err := h.auditor.WriteAudit(userID, domain.AuditActionDashboardView, "dashboard", resourceID, "", c.IP(), c.Get("User-Agent")); err != nil {
		slog.Error("failed to write dashboard audit log", "error", err)
	}
}

// pageState resolves the session for a page request. Pages sit behind the
// gate (authentication), so a missing role here is an entitlement problem,
// not an authentication one.
func (h *HubHandler) pageState(c fiber.Ctx) domain.AuthState {
	token := middleware.TokenFromRequest(c, h.cookieName)
	return h.authService.Resolve(c.Context(), token)
}
