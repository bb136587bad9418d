package middleware

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bmp-ai/brandhub/internal/domain"
	"github.com/gofiber/fiber/v3"
)

// AuditWriter defines how audit records are persisted.
type AuditWriter interface {
	WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error
}

// AuditMiddleware records every request for compliance purposes. Each record
// carries the tenant context the gate resolved for the request, so the trail
// answers "who viewed which hub" and not just "who hit which path".
func AuditMiddleware(writer AuditWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data BEFORE handler execution (Fiber reuses context objects)
		method := c.Method()
		rawPath := c.Path()
		ip := c.IP()
		userAgent := c.Get("User-Agent")
		host := c.Hostname()

		err := c.Next()

		// The gate and session middleware fill these in during Next.
		userID := "anonymous"
		if uc := GetUserContext(c); uc != nil {
			userID = uc.UserID
		}
		tenant, _ := c.Locals("tenant").(string)

		details := map[string]interface{}{
			"method":      method,
			"path":        rawPath,
			"host":        host,
			"status":      c.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if tenant != "" {
			details["tenant"] = tenant
			details["effective_path"] = c.Path()
		}
		detailsJSON, _ := json.Marshal(details)

		// Write audit log asynchronously; all values are captured above.
		go func() {
			if writeErr := writer.WriteAudit(
				userID,
				domain.AuditActionHTTPRequest,
				"http",
				rawPath,
				string(detailsJSON),
				ip,
				userAgent,
			); writeErr != nil {
				slog.Error("failed to write audit log", "error", writeErr)
			}
		}()

		return err
	}
}
