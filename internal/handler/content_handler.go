package handler

import (
	"log/slog"
	"strings"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/bmp-ai/brandhub/internal/middleware"
	"github.com/bmp-ai/brandhub/internal/service"
	"github.com/gofiber/fiber/v3"
)

// ContentHandler serves the public demo workflow: diagnose a brand and
// generate content drafts from the diagnosis.
type ContentHandler struct {
	contentService *service.ContentService
	auditor        middleware.AuditWriter
}

// NewContentHandler creates a new content handler.
func NewContentHandler(contentService *service.ContentService, auditor middleware.AuditWriter) *ContentHandler {
	return &ContentHandler{contentService: contentService, auditor: auditor}
}

// RegisterPages sets up the public demo page route.
func (h *ContentHandler) RegisterPages(app *fiber.App) {
	app.Get("/demo", h.DemoPage)
}

// Register sets up the public content API routes.
func (h *ContentHandler) Register(router fiber.Router) {
	content := router.Group("/content")
	content.Get("/catalog", h.Catalog)
	content.Post("/diagnose", h.Diagnose)
	content.Post("/generate", h.Generate)
}

// DemoPage describes the demo view: the selectable content types and models.
func (h *ContentHandler) DemoPage(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":          "demo",
		"content_types": domain.ContentTypes,
		"llms":          domain.LLMs,
	})
}

// Catalog returns the supported content types and models.
func (h *ContentHandler) Catalog(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"content_types": domain.ContentTypes,
		"llms":          domain.LLMs,
	})
}

// Diagnose fetches the analysis bundle for a brand slug.
// POST /api/v1/content/diagnose
func (h *ContentHandler) Diagnose(c fiber.Ctx) error {
	var req struct {
		Slug string `json:"slug"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "slug is required",
		})
	}

	diag, err := h.contentService.Diagnose(c.Context(), req.Slug)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(diag)
}

// Generate produces a content draft for a diagnosed brand.
// POST /api/v1/content/generate
func (h *ContentHandler) Generate(c fiber.Ctx) error {
	var req struct {
		Slug        string `json:"slug"`
		ContentType string `json:"content_type"`
		LLM         string `json:"llm"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if strings.TrimSpace(req.Slug) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "slug is required",
		})
	}

	gen, err := h.contentService.Generate(c.Context(), req.Slug, req.ContentType, req.LLM)
	if err != nil {
		return fail(c, err)
	}

	h.writeAudit(c, req.Slug, req.ContentType+"/"+req.LLM)

	return c.JSON(gen)
}

func (h *ContentHandler) writeAudit(c fiber.Ctx, slug, details string) {
	if h.auditor == nil {
		return
	}
	userID := "anonymous"
	if uc := middleware.GetUserContext(c); uc != nil {
		userID = uc.UserID
	}
	if err := h.auditor.WriteAudit(userID, domain.AuditActionContentGenerate, "content", slug, details, c.IP(), c.Get("User-Agent")); err != nil {
		slog.Error("failed to write content audit log", "error", err)
	}
}
