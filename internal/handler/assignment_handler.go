package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/service"
	"github.com/noah-isme/gema-dashboard/internal/utils"
)

// AssignmentHandler wires assignment HTTP routes.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment endpoints to the dashboard group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("/assignments", middleware.WithAuth(h.list, middleware.AuthOptions{Role: middleware.AuthRoleAny}))
	router.Post("/instructor/assignments", middleware.WithAuth(h.create, middleware.AuthOptions{Role: middleware.AuthRoleInstructor}))
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	view, err := h.service.List(requestContext(c))
	return sendList(c, h.logger, "assignments retrieved", view, err)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var form dto.AssignmentForm
	if err := c.BodyParser(&form); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(requestContext(c), form)
	return sendForm(c, h.logger, fiber.StatusCreated, result, err)
}
