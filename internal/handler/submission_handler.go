package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/service"
	"github.com/noah-isme/gema-dashboard/internal/utils"
)

// SubmissionHandler wires the instructor review and student submission routes.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches submission endpoints to the dashboard group.
func (h *SubmissionHandler) Register(router fiber.Router) {
	instructor := middleware.AuthOptions{Role: middleware.AuthRoleInstructor}
	student := middleware.AuthOptions{Role: middleware.AuthRoleStudent}

	router.Get("/instructor/assignments/:id/submissions", middleware.WithAuth(h.listForAssignment, instructor))
	router.Patch("/instructor/submissions/:id/status", middleware.WithAuth(h.review, instructor))
	router.Post("/student/assignments/:id/submissions", middleware.WithAuth(h.submit, student))
	router.Get("/student/submissions", middleware.WithAuth(h.listMine, student))
}

func (h *SubmissionHandler) listForAssignment(c *fiber.Ctx) error {
	view, err := h.service.ListForAssignment(requestContext(c), c.Params("id"))
	return sendList(c, h.logger, "submissions retrieved", view, err)
}

func (h *SubmissionHandler) listMine(c *fiber.Ctx) error {
	view, err := h.service.ListMine(requestContext(c))
	return sendList(c, h.logger, "submissions retrieved", view, err)
}

func (h *SubmissionHandler) review(c *fiber.Ctx) error {
	var form dto.FeedbackForm
	if err := c.BodyParser(&form); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Review(requestContext(c), c.Params("id"), form)
	return sendForm(c, h.logger, fiber.StatusOK, result, err)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	var form dto.SubmitWorkForm
	if err := c.BodyParser(&form); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Submit(requestContext(c), c.Params("id"), form)
	return sendForm(c, h.logger, fiber.StatusCreated, result, err)
}
