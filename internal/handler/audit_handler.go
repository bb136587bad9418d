package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/middleware"
	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/gofiber/fiber/v3"
)

// AuditReader lists persisted audit records.
type AuditReader interface {
	ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error)
}

// AuditHandler exposes the audit trail to administrators.
type AuditHandler struct {
	reader AuditReader
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(reader AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// Register sets up audit routes on the API group.
func (h *AuditHandler) Register(api fiber.Router) {
	api.Get("/audit/logs", h.ListLogs)
}

// ListLogs returns recent audit records, newest first. Admin only.
// GET /api/v1/audit/logs?limit=100&action=chat_query
func (h *AuditHandler) ListLogs(c fiber.Ctx) error {
	role := middleware.GetRoleRecord(c)
	if role == nil || !role.IsAdmin {
		return fail(c, fmt.Errorf("audit trail: %w", port.ErrForbidden))
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be between 1 and 1000",
			})
		}
		limit = n
	}

	logs, err := h.reader.ListAuditLogs(c.Context(), limit, c.Query("action"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"logs": logs, "count": len(logs)})
}
