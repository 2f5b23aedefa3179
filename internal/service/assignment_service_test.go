package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/repository"
)

func TestAssignmentServiceListBuildsCards(t *testing.T) {
	repo := &fakeAssignmentRepo{assignments: []models.Assignment{
		{ID: "A1", Title: "HW1", Description: "Loops", Deadline: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "A2", Title: "HW2", Description: "Maps", Deadline: time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)},
	}}
	svc := NewAssignmentService(repo, newValidator(t), time.UTC, zerolog.Nop()).(*assignmentService)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	view, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, dto.ViewStateSuccess, view.State)
	require.Len(t, view.Items, 2)
	require.True(t, view.Items[0].PastDue)
	require.False(t, view.Items[1].PastDue)
}

func TestAssignmentServiceListShowsPlaceholderWhenEmpty(t *testing.T) {
	svc := NewAssignmentService(&fakeAssignmentRepo{}, newValidator(t), time.UTC, zerolog.Nop())

	view, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, dto.ViewStateEmpty, view.State)
	require.Equal(t, "No data found", view.Placeholder)
	require.Empty(t, view.Items)
}

func TestAssignmentServiceListSurfacesBackendFailureAsToast(t *testing.T) {
	repo := &fakeAssignmentRepo{listErr: applicationError("assignments.list", "Token expired")}
	svc := NewAssignmentService(repo, newValidator(t), time.UTC, zerolog.Nop())

	view, err := svc.List(context.Background())
	require.Error(t, err)
	require.Equal(t, dto.ViewStateError, view.State)
	require.Empty(t, view.Items)
	require.NotNil(t, view.Toast)
	require.Equal(t, dto.ToastError, view.Toast.Level)
	require.Equal(t, "Token expired", view.Toast.Message)
}

func TestAssignmentServiceCreateSendsUTCDeadline(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := NewAssignmentService(repo, newValidator(t), time.UTC, zerolog.Nop())

	result, err := svc.Create(context.Background(), dto.AssignmentForm{
		Title:       " HW1 ",
		Description: "Loops",
		Deadline:    "2025-01-01T10:00",
	})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	require.Equal(t, "/instructor/assignments", result.Redirect)
	require.Equal(t, []string{repository.TagAssignments}, result.Refetch)
	require.Equal(t, "Assignment created successfully", result.Toast.Message)

	require.Len(t, repo.created, 1)
	require.Equal(t, repository.AssignmentInput{
		Title:       "HW1",
		Description: "Loops",
		Deadline:    "2025-01-01T10:00:00.000Z",
	}, repo.created[0])
}

func TestAssignmentServiceCreateInterpretsDeadlineInConfiguredZone(t *testing.T) {
	location := time.FixedZone("WIB", 7*60*60)
	repo := &fakeAssignmentRepo{}
	svc := NewAssignmentService(repo, newValidator(t), location, zerolog.Nop())

	_, err := svc.Create(context.Background(), dto.AssignmentForm{Title: "HW", Description: "d", Deadline: "2025-01-01T10:00"})
	require.NoError(t, err)
	require.Equal(t, "2025-01-01T03:00:00.000Z", repo.created[0].Deadline)
}

func TestAssignmentServiceCreateRejectsInvalidFormWithoutCallingBackend(t *testing.T) {
	repo := &fakeAssignmentRepo{}
	svc := NewAssignmentService(repo, newValidator(t), time.UTC, zerolog.Nop())

	result, err := svc.Create(context.Background(), dto.AssignmentForm{Title: "", Description: "d", Deadline: "next week"})
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, dto.FormStateEditable, result.State)
	require.Equal(t, "Title is required", result.FieldErrors["title"])
	require.Equal(t, "Deadline must be a valid date and time", result.FieldErrors["deadline"])
	require.Equal(t, "next week", result.Values["deadline"])
	require.Empty(t, repo.created)
}

func TestAssignmentServiceCreateKeepsFormOnBackendFailure(t *testing.T) {
	repo := &fakeAssignmentRepo{createErr: applicationError("assignments.create", "Title already used")}
	svc := NewAssignmentService(repo, newValidator(t), time.UTC, zerolog.Nop())

	result, err := svc.Create(context.Background(), dto.AssignmentForm{Title: "HW", Description: "d", Deadline: "2025-01-01T10:00"})
	require.Error(t, err)
	require.False(t, result.Succeeded())
	require.Equal(t, "Title already used", result.Toast.Message)
	require.Equal(t, "HW", result.Values["title"])
	require.Empty(t, result.Redirect)
}
