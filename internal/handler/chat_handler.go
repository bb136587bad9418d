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

// ChatHandler exposes the knowledge-hub chat endpoint for a partner hub.
type ChatHandler struct {
	chatService *service.ChatService
	auditor     middleware.AuditWriter
	resolver    *tenant.Resolver
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *service.ChatService, auditor middleware.AuditWriter, resolver *tenant.Resolver) *ChatHandler {
	return &ChatHandler{chatService: chatService, auditor: auditor, resolver: resolver}
}

// Register sets up chat routes on the API group.
func (h *ChatHandler) Register(api fiber.Router) {
	api.Post("/hubs/:partner/chat", h.Ask)
}

// Ask sends one question to the partner's knowledge hub.
// POST /api/v1/hubs/:partner/chat
func (h *ChatHandler) Ask(c fiber.Ctx) error {
	partner := h.resolver.CanonicalSlug(c.Params("partner"))

	if !middleware.GetRoleRecord(c).CanAccess(partner, "") {
		return fail(c, fmt.Errorf("partner %q: %w", partner, port.ErrForbidden))
	}

	var req struct {
		Query          string `json:"query"`
		IncludeSources bool   `json:"include_sources"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	answer, err := h.chatService.Ask(c.Context(), partner, req.Query, req.IncludeSources)
	if err != nil {
		return fail(c, err)
	}

	h.writeAudit(c, partner, req.Query)

	return c.JSON(answer)
}

func (h *ChatHandler) writeAudit(c fiber.Ctx, partner, query string) {
	if h.auditor == nil {
		return
	}
	userID := "anonymous"
	if uc := middleware.GetUserContext(c); uc != nil {
		userID = uc.UserID
	}
	if err := h.auditor.WriteAudit(userID, domain.AuditActionChatQuery, "hub", partner, query, c.IP(), c.Get("User-Agent")); err != nil {
		slog.Error("failed to write chat audit log", "error", err)
	}
}
