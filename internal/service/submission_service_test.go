package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/repository"
	"github.com/noah-isme/gema-dashboard/internal/session"
	"github.com/noah-isme/gema-dashboard/internal/upstream"
)

func TestSubmissionServiceListForAssignmentRendersBadges(t *testing.T) {
	repo := &fakeSubmissionRepo{submissions: map[string][]models.Submission{
		"A1": {
			{ID: "S1", Assignment: models.Ref{ID: "A1"}, Student: models.Ref{ID: "U1", Email: "u1@example.com"}, Status: "pending"},
			{ID: "S2", Assignment: models.Ref{ID: "A1"}, Student: models.Ref{ID: "U2"}, Status: "Reviewed", Feedback: "<b>Nice</b> work"},
			{ID: "S3", Assignment: models.Ref{ID: "A1"}, Student: models.Ref{ID: "U3"}, Status: "archived"},
		},
	}}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	view, err := svc.ListForAssignment(context.Background(), "A1")
	require.NoError(t, err)
	require.Equal(t, dto.ViewStateSuccess, view.State)
	require.Len(t, view.Items, 3)
	require.Equal(t, "PENDING", view.Items[0].Badge)
	require.Equal(t, "u1@example.com", view.Items[0].StudentEmail)
	require.Equal(t, models.SubmissionStatusReviewed, view.Items[1].Status)
	require.Equal(t, "REVIEWED", view.Items[1].Badge)
	require.Equal(t, "Nice work", view.Items[1].Feedback)
	require.Equal(t, "PENDING", view.Items[2].Badge)
}

func TestSubmissionServiceListShowsZeroCardsAndToastOnFailure(t *testing.T) {
	repo := &fakeSubmissionRepo{err: applicationError("submissions.by_assignment", "Assignment not found")}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	view, err := svc.ListForAssignment(context.Background(), "missing")
	require.Error(t, err)
	require.Equal(t, dto.ViewStateError, view.State)
	require.Empty(t, view.Items)
	require.Equal(t, "Assignment not found", view.Toast.Message)
}

func TestSubmissionServiceListMineUsesSessionUser(t *testing.T) {
	repo := &fakeSubmissionRepo{submissions: map[string][]models.Submission{
		"U1": {{ID: "S1", Assignment: models.Ref{ID: "A1", Title: "HW1"}, Student: models.Ref{ID: "U1"}, Status: "rejected"}},
	}}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	view, err := svc.ListMine(studentContext("U1"))
	require.NoError(t, err)
	require.Equal(t, []string{"student:U1"}, repo.listed)
	require.Len(t, view.Items, 1)
	require.Equal(t, "HW1", view.Items[0].AssignmentTitle)
	require.Equal(t, "REJECTED", view.Items[0].Badge)
}

func TestSubmissionServiceListMineRequiresSession(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	view, err := svc.ListMine(context.Background())
	require.ErrorIs(t, err, session.ErrUnauthenticated)
	require.Equal(t, dto.ViewStateError, view.State)
	require.Empty(t, repo.listed)
}

func TestSubmissionServiceReviewSendsStatusAndFeedback(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	result, err := svc.Review(context.Background(), "S1", dto.FeedbackForm{Status: "Reviewed", Feedback: " Good job "})
	require.NoError(t, err)
	require.True(t, result.Succeeded())
	require.True(t, result.CloseModal)
	require.Equal(t, []string{repository.TagSubmissions}, result.Refetch)
	require.Equal(t, "Status updated", result.Toast.Message)

	require.Len(t, repo.reviewed, 1)
	require.Equal(t, "S1", repo.reviewed[0].id)
	require.Equal(t, repository.ReviewInput{Status: models.SubmissionStatusReviewed, Feedback: "Good job"}, repo.reviewed[0].input)
}

func TestSubmissionServiceReviewValidatesStatus(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	result, err := svc.Review(context.Background(), "S1", dto.FeedbackForm{Status: "graded", Feedback: ""})
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "Status must be pending, reviewed or rejected", result.FieldErrors["status"])
	require.Equal(t, "Feedback is required", result.FieldErrors["feedback"])
	require.False(t, result.CloseModal)
	require.Empty(t, repo.reviewed)
}

func TestSubmissionServiceSubmitAttachesAssignmentAndStudent(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	result, err := svc.Submit(studentContext("U1"), "A1", dto.SubmitWorkForm{SubmissionURL: "https://github.com/u1/hw1", Note: "done"})
	require.NoError(t, err)
	require.True(t, result.CloseModal)
	require.Equal(t, "/student/submissions", result.Redirect)
	require.Equal(t, []string{repository.TagStudentSubmissions}, result.Refetch)
	require.Equal(t, []repository.SubmissionInput{{
		SubmissionURL: "https://github.com/u1/hw1",
		Note:          "done",
		Assignment:    "A1",
		Student:       "U1",
	}}, repo.created)
}

func TestSubmissionServiceSubmitRequiresTrimmedNote(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	result, err := svc.Submit(studentContext("U1"), "A1", dto.SubmitWorkForm{SubmissionURL: "https://github.com/u1/hw1", Note: "   "})
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "note is required", result.FieldErrors["note"])
	require.Equal(t, "https://github.com/u1/hw1", result.Values["submissionUrl"])
	require.Empty(t, repo.created)
}

func TestSubmissionServiceSubmitFailsWithoutSession(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	result, err := svc.Submit(context.Background(), "A1", dto.SubmitWorkForm{SubmissionURL: "https://x", Note: "n"})
	require.ErrorIs(t, err, session.ErrUnauthenticated)
	require.Equal(t, "https://x", result.Values["submissionUrl"])
	require.Empty(t, repo.created)
}

func TestSubmissionServiceSubmitKeepsModalOpenOnBackendFailure(t *testing.T) {
	repo := &fakeSubmissionRepo{err: &upstream.Error{Kind: upstream.KindTransport, Operation: "submissions.create"}}
	svc := NewSubmissionService(repo, newValidator(t), zerolog.Nop())

	result, err := svc.Submit(studentContext("U1"), "A1", dto.SubmitWorkForm{SubmissionURL: "https://x", Note: "n"})
	require.Error(t, err)
	require.False(t, result.CloseModal)
	require.Equal(t, "Something went wrong", result.Toast.Message)
}
