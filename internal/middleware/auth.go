package middleware

import (
	"context"
	"strings"

	"unfake/internal/auth"
	"unfake/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Messages returned by the guards.
const (
	MsgNoToken    = "No token or invalid format, authorization denied."
	MsgAdminsOnly = "Access denied. Admins only."
)

// Locals keys set by AuthRequired.
const (
	LocalUserID    = "userID"
	LocalPrincipal = "principal"
)

// Authenticator resolves a bearer token to the principal it identifies.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// AuthRequired enforces a valid "Bearer <token>" Authorization header and
// stores the principal in locals and in the request context.
func AuthRequired(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return models.RespondWithError(c, models.NewUnauthorizedError(MsgNoToken))
		}

		principal, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			return models.RespondWithError(c, err)
		}

		c.Locals(LocalUserID, principal.ID)
		c.Locals(LocalPrincipal, principal)
		c.SetUserContext(WithUserID(c.UserContext(), principal.ID))
		return c.Next()
	}
}

// AdminRequired rejects non-admin principals with 403. Must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if principal, _ := c.Locals(LocalPrincipal).(auth.Principal); !principal.IsAdmin() {
			return models.RespondWithError(c, models.NewForbiddenError(MsgAdminsOnly))
		}
		return c.Next()
	}
}

// CurrentUserID returns the id stored by AuthRequired.
func CurrentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
