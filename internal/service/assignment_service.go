package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/dto"
	"github.com/noah-isme/gema-dashboard/internal/repository"
)

// AssignmentService backs the assignment list and the create-assignment form.
type AssignmentService interface {
	List(ctx context.Context) (dto.ListView[dto.AssignmentCard], error)
	Create(ctx context.Context, form dto.AssignmentForm) (dto.FormResult, error)
}

type assignmentService struct {
	repo      repository.AssignmentRepository
	validator *validator.Validate
	location  *time.Location
	sanitizer textSanitizer
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAssignmentService builds a new assignment service. Deadlines without an offset are read in location.
func NewAssignmentService(repo repository.AssignmentRepository, validate *validator.Validate, location *time.Location, logger zerolog.Logger) AssignmentService {
	if location == nil {
		location = time.UTC
	}

	return &assignmentService{
		repo:      repo,
		validator: validate,
		location:  location,
		sanitizer: newTextSanitizer(),
		logger:    logger.With().Str("component", "assignment_service").Logger(),
		now:       time.Now,
	}
}

func (s *assignmentService) List(ctx context.Context) (dto.ListView[dto.AssignmentCard], error) {
	assignments, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load assignments")
		return dto.NewErrorListView[dto.AssignmentCard](s.sanitizer.ErrorMessage(err)), err
	}

	return dto.NewListView(dto.NewAssignmentCardSlice(assignments, s.now())), nil
}

func (s *assignmentService) Create(ctx context.Context, form dto.AssignmentForm) (dto.FormResult, error) {
	trim(&form.Title, &form.Description, &form.Deadline)

	errs, err := fieldErrors(s.validator, form)
	if err != nil {
		return failedForm(form.Values(), "Something went wrong"), err
	}
	if errs != nil {
		return invalidForm(form.Values(), errs), ErrValidation
	}

	deadline, err := ParseDeadline(form.Deadline, s.location)
	if err != nil {
		return invalidForm(form.Values(), map[string]string{"deadline": fieldMessages["deadline.deadline"]}), ErrValidation
	}

	message, err := s.repo.Create(ctx, repository.AssignmentInput{
		Title:       form.Title,
		Description: form.Description,
		Deadline:    FormatISO(deadline),
	})
	if err != nil {
		return failedForm(form.Values(), s.sanitizer.ErrorMessage(err)), err
	}

	s.logger.Info().Str("title", form.Title).Msg("assignment created")

	result := submittedForm(s.sanitizer.Text(message), "Assignment created")
	result.Redirect = "/instructor/assignments"
	result.Refetch = []string{repository.TagAssignments}
	return result, nil
}
