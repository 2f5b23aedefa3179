package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/service"
	"github.com/noah-isme/gema-dashboard/internal/session"
	"github.com/noah-isme/gema-dashboard/internal/utils"
)

// NavigationHandler serves the role-specific sidebar.
type NavigationHandler struct{}

// NewNavigationHandler constructs the handler.
func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Register attaches the navigation endpoint to the dashboard group.
func (h *NavigationHandler) Register(router fiber.Router) {
	router.Get("/navigation", middleware.WithAuth(h.navigation, middleware.AuthOptions{RequireUser: true}))
}

func (h *NavigationHandler) navigation(c *fiber.Ctx) error {
	user, err := session.UserFromContext(c.UserContext())
	if err != nil {
		return utils.SendUnauthenticated(c, "")
	}
	return utils.SendSuccess(c, "navigation", service.Navigation(user, utils.CurrentPath(c)))
}
