package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/service"
	"github.com/noah-isme/gema-dashboard/internal/utils"
)

// StatsHandler serves the instructor dashboard chart.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler constructs the handler.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("component", "stats_handler").Logger(),
	}
}

// Register attaches the stats endpoint to the dashboard group.
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("/instructor/stats", middleware.WithAuth(h.statusChart, middleware.AuthOptions{Role: middleware.AuthRoleInstructor}))
}

func (h *StatsHandler) statusChart(c *fiber.Ctx) error {
	chart, err := h.service.StatusChart(requestContext(c))
	if err != nil {
		return respondFailure(c, h.logger, err, chart)
	}
	return utils.SendSuccess(c, "submission stats retrieved", chart)
}
