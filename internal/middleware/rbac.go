package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-dashboard/internal/session"
	"github.com/noah-isme/gema-dashboard/internal/utils"
)

type roleSet map[string]struct{}

func newRoleSet(roles ...string) roleSet {
	allowed := make(roleSet, len(roles))
	for _, role := range roles {
		if normalized := normalizeRole(role); normalized != "" {
			allowed[normalized] = struct{}{}
		}
	}
	return allowed
}

// admit writes the refusal and returns false when the session user holds none of the roles.
func (s roleSet) admit(c *fiber.Ctx) (bool, error) {
	user, err := session.UserFromContext(c.UserContext())
	if err != nil {
		return false, utils.SendUnauthenticated(c, "")
	}
	if _, ok := s[normalizeRole(string(user.Role))]; !ok {
		return false, utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	}
	return true, nil
}

// RequireRole admits only callers whose session user holds one of roles.
// Anonymous callers get 401 with a login redirect, other roles get 403.
func RequireRole(roles ...string) fiber.Handler {
	allowed := newRoleSet(roles...)

	return func(c *fiber.Ctx) error {
		if ok, err := allowed.admit(c); !ok {
			return err
		}
		return c.Next()
	}
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
