package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/session"
	"github.com/noah-isme/gema-dashboard/internal/utils"
)

// Auth role constants used by WithAuth helper.
const (
	AuthRoleAny        = "any"
	AuthRoleStudent    = string(models.RoleStudent)
	AuthRoleInstructor = string(models.RoleInstructor)
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth wraps a handler with session and role guards.
// Anonymous callers receive 401 with a login redirect; callers with the wrong role receive 403.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := normalizeRole(opts.Role)
	if role == "" {
		role = AuthRoleAny
	}

	if role != AuthRoleAny {
		allowed := newRoleSet(role)
		return func(c *fiber.Ctx) error {
			if ok, err := allowed.admit(c); !ok {
				return err
			}
			return handler(c)
		}
	}

	return func(c *fiber.Ctx) error {
		if opts.RequireUser {
			if sess, ok := session.FromContext(c.UserContext()); !ok || !sess.Authenticated() {
				return utils.SendUnauthenticated(c, "")
			}
		}
		return handler(c)
	}
}
