package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/models"
)

func TestStatsServiceMapsStatusesToChartSlices(t *testing.T) {
	repo := &fakeSubmissionRepo{stats: []models.StatusStat{
		{Status: "pending", Count: 4},
		{Status: "reviewed", Count: 2},
		{Status: "rejected", Count: 1},
		{Status: "late", Count: 3},
	}}
	svc := NewStatsService(repo, zerolog.Nop())

	chart, err := svc.StatusChart(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Submission Stats", chart.Title)
	require.Equal(t, dto.ViewStateSuccess, chart.State)
	require.Equal(t, []dto.ChartSlice{
		{Status: models.SubmissionStatusPending, Label: "Pending", Count: 4, Fill: "var(--chart-1)"},
		{Status: models.SubmissionStatusReviewed, Label: "Reviewed", Count: 2, Fill: "var(--chart-2)"},
		{Status: models.SubmissionStatusRejected, Label: "Rejected", Count: 1, Fill: "var(--chart-3)"},
		{Status: "late", Label: "late", Count: 3, Fill: "var(--chart-4)"},
	}, chart.Items)
}

func TestStatsServiceEmptyAndFailure(t *testing.T) {
	chart, err := NewStatsService(&fakeSubmissionRepo{}, zerolog.Nop()).StatusChart(context.Background())
	require.NoError(t, err)
	require.Equal(t, dto.ViewStateEmpty, chart.State)

	chart, err = NewStatsService(&fakeSubmissionRepo{err: applicationError("submissions.stats", "Forbidden")}, zerolog.Nop()).StatusChart(context.Background())
	require.Error(t, err)
	require.Equal(t, dto.ViewStateError, chart.State)
	require.Equal(t, "Forbidden", chart.Toast.Message)
}
