package server

import (
	"strings"

	"unfake/internal/models"

	"github.com/gofiber/fiber/v2"
)

// MsgInvalidBody is returned when a request body cannot be decoded.
const MsgInvalidBody = "Invalid request body."

// parseBody decodes the request body into dst.
// On failure it returns a validation AppError for the caller to write.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return models.NewValidationError(MsgInvalidBody)
	}
	return nil
}

// searchQuery returns the trimmed q parameter; empty matches everything.
func searchQuery(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Query("q"))
}
