package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/repository"
)

type chartSeries struct {
	label string
	color string
}

var statusChartConfig = map[models.SubmissionStatus]chartSeries{
	models.SubmissionStatusPending:  {label: "Pending", color: "var(--chart-1)"},
	models.SubmissionStatusReviewed: {label: "Reviewed", color: "var(--chart-2)"},
	models.SubmissionStatusRejected: {label: "Rejected", color: "var(--chart-3)"},
}

const fallbackChartColor = "var(--chart-4)"

// StatsService builds the instructor's submissions-by-status chart.
type StatsService interface {
	StatusChart(ctx context.Context) (dto.StatsChart, error)
}

type statsService struct {
	repo      repository.SubmissionRepository
	sanitizer textSanitizer
	logger    zerolog.Logger
}

// NewStatsService builds the stats service.
func NewStatsService(repo repository.SubmissionRepository, logger zerolog.Logger) StatsService {
	return &statsService{
		repo:      repo,
		sanitizer: newTextSanitizer(),
		logger:    logger.With().Str("component", "stats_service").Logger(),
	}
}

func (s *statsService) StatusChart(ctx context.Context) (dto.StatsChart, error) {
	chart := dto.StatsChart{
		Title:       "Submission Stats",
		Description: "Submissions grouped by status",
	}

	stats, err := s.repo.StatusStats(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load submission stats")
		chart.ListView = dto.NewErrorListView[dto.ChartSlice](s.sanitizer.ErrorMessage(err))
		return chart, err
	}

	slices := make([]dto.ChartSlice, 0, len(stats))
	for _, stat := range stats {
		status, parseErr := models.ParseSubmissionStatus(string(stat.Status))
		series, known := statusChartConfig[status]
		if parseErr != nil || !known {
			status = stat.Status
			series = chartSeries{label: string(stat.Status), color: fallbackChartColor}
		}
		slices = append(slices, dto.ChartSlice{
			Status: status,
			Label:  series.label,
			Count:  stat.Count,
			Fill:   series.color,
		})
	}

	chart.ListView = dto.NewListView(slices)
	return chart, nil
}
