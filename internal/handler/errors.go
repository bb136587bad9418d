package handler

import (
	"errors"

	"github.com/bmp-ai/brandhub/internal/port"
	"github.com/gofiber/fiber/v3"
)

// fail maps service errors onto HTTP responses. Not-found and forbidden are
// kept distinct: an unknown tenant or client is a 404, a known one the role
// may not view is a 403.
func fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, port.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, port.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "access denied"})
	case errors.Is(err, port.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	case errors.Is(err, port.ErrUnknownContentType), errors.Is(err, port.ErrUnknownLLM):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, port.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "upstream service unavailable"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
