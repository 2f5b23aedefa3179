package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/repository"
	"github.com/noah-isme/gema-dashboard/internal/session"
)

// SubmissionService backs the submission lists and the review and submit modals.
type SubmissionService interface {
	ListForAssignment(ctx context.Context, assignmentID string) (dto.ListView[dto.SubmissionCard], error)
	ListMine(ctx context.Context) (dto.ListView[dto.SubmissionCard], error)
	Review(ctx context.Context, submissionID string, form dto.FeedbackForm) (dto.FormResult, error)
	Submit(ctx context.Context, assignmentID string, form dto.SubmitWorkForm) (dto.FormResult, error)
}

type submissionService struct {
	repo      repository.SubmissionRepository
	validator *validator.Validate
	sanitizer textSanitizer
	logger    zerolog.Logger
}

// NewSubmissionService builds the submission service.
func NewSubmissionService(repo repository.SubmissionRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		repo:      repo,
		validator: validate,
		sanitizer: newTextSanitizer(),
		logger:    logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) ListForAssignment(ctx context.Context, assignmentID string) (dto.ListView[dto.SubmissionCard], error) {
	assignmentID = strings.TrimSpace(assignmentID)
	submissions, err := s.repo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		s.logger.Warn().Err(err).Str("assignment_id", assignmentID).Msg("failed to load submissions")
		return dto.NewErrorListView[dto.SubmissionCard](s.sanitizer.ErrorMessage(err)), err
	}

	return dto.NewListView(s.cards(submissions)), nil
}

func (s *submissionService) ListMine(ctx context.Context) (dto.ListView[dto.SubmissionCard], error) {
	user, err := session.UserFromContext(ctx)
	if err == nil && user.ID == "" {
		err = session.ErrUnauthenticated
	}
	if err != nil {
		return dto.NewErrorListView[dto.SubmissionCard](s.sanitizer.ErrorMessage(err)), err
	}

	submissions, err := s.repo.ListByStudent(ctx, user.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("student_id", user.ID).Msg("failed to load student submissions")
		return dto.NewErrorListView[dto.SubmissionCard](s.sanitizer.ErrorMessage(err)), err
	}

	return dto.NewListView(s.cards(submissions)), nil
}

func (s *submissionService) Review(ctx context.Context, submissionID string, form dto.FeedbackForm) (dto.FormResult, error) {
	trim(&form.Status, &form.Feedback)
	form.Status = strings.ToLower(form.Status)

	errs, err := fieldErrors(s.validator, form)
	if err != nil {
		return failedForm(form.Values(), "Something went wrong"), err
	}
	if errs != nil {
		return invalidForm(form.Values(), errs), ErrValidation
	}

	status, err := models.ParseSubmissionStatus(form.Status)
	if err != nil {
		return invalidForm(form.Values(), map[string]string{"status": fieldMessages["status.oneof"]}), ErrValidation
	}

	message, err := s.repo.Review(ctx, strings.TrimSpace(submissionID), repository.ReviewInput{
		Status:   status,
		Feedback: form.Feedback,
	})
	if err != nil {
		return failedForm(form.Values(), s.sanitizer.ErrorMessage(err)), err
	}

	s.logger.Info().Str("submission_id", submissionID).Str("status", string(status)).Msg("submission reviewed")

	result := submittedForm(s.sanitizer.Text(message), "Feedback saved")
	result.CloseModal = true
	result.Refetch = []string{repository.TagSubmissions}
	return result, nil
}

func (s *submissionService) Submit(ctx context.Context, assignmentID string, form dto.SubmitWorkForm) (dto.FormResult, error) {
	trim(&form.SubmissionURL, &form.Note)

	errs, err := fieldErrors(s.validator, form)
	if err != nil {
		return failedForm(form.Values(), "Something went wrong"), err
	}
	if errs != nil {
		return invalidForm(form.Values(), errs), ErrValidation
	}

	user, err := session.UserFromContext(ctx)
	if err == nil && user.ID == "" {
		err = session.ErrUnauthenticated
	}
	if err != nil {
		return failedForm(form.Values(), s.sanitizer.ErrorMessage(err)), err
	}

	message, err := s.repo.Create(ctx, repository.SubmissionInput{
		SubmissionURL: form.SubmissionURL,
		Note:          form.Note,
		Assignment:    strings.TrimSpace(assignmentID),
		Student:       user.ID,
	})
	if err != nil {
		return failedForm(form.Values(), s.sanitizer.ErrorMessage(err)), err
	}

	s.logger.Info().Str("assignment_id", assignmentID).Str("student_id", user.ID).Msg("work submitted")

	result := submittedForm(s.sanitizer.Text(message), "Submission received")
	result.CloseModal = true
	result.Redirect = "/student/submissions"
	result.Refetch = []string{repository.TagStudentSubmissions}
	return result, nil
}

func (s *submissionService) cards(submissions []models.Submission) []dto.SubmissionCard {
	cards := make([]dto.SubmissionCard, 0, len(submissions))
	for _, submission := range submissions {
		status, err := models.ParseSubmissionStatus(string(submission.Status))
		if err != nil {
			s.logger.Warn().Err(err).Str("submission_id", submission.ID).Msg("unknown submission status, showing as pending")
			status = models.SubmissionStatusPending
		}

		card := dto.SubmissionCard{
			ID:              submission.ID,
			AssignmentID:    submission.Assignment.ID,
			AssignmentTitle: submission.Assignment.Title,
			StudentID:       submission.Student.ID,
			StudentEmail:    submission.Student.Email,
			SubmissionURL:   submission.SubmissionURL,
			Note:            s.sanitizer.Text(submission.Note),
			Status:          status,
			Badge:           status.Badge(),
			Feedback:        s.sanitizer.Text(submission.Feedback),
		}
		if submitted := submission.SubmittedTime(); !submitted.IsZero() {
			at := submitted.In(time.UTC)
			card.SubmittedAt = &at
		}
		cards = append(cards, card)
	}
	return cards
}
