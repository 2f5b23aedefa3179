package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/upstream"
)

// SubmissionInput is the body sent when a student hands in work.
type SubmissionInput struct {
	SubmissionURL string `json:"submissionUrl"`
	Note          string `json:"note"`
	Assignment    string `json:"assignment"`
	Student       string `json:"student"`
}

// ReviewInput is the body sent when an instructor sets status and feedback.
type ReviewInput struct {
	Status   models.SubmissionStatus `json:"status"`
	Feedback string                  `json:"feedback"`
}

// SubmissionRepository exposes the backend's submission operations.
type SubmissionRepository interface {
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	Create(ctx context.Context, input SubmissionInput) (string, error)
	Review(ctx context.Context, submissionID string, input ReviewInput) (string, error)
	StatusStats(ctx context.Context) ([]models.StatusStat, error)
}

type submissionRepository struct {
	client *upstream.Client
}

// NewSubmissionRepository instantiates a backend-API repository.
func NewSubmissionRepository(client *upstream.Client) SubmissionRepository {
	return &submissionRepository{client: client}
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	const operation = "submissions.by_assignment"
	envelope, err := r.client.Do(ctx, upstream.Operation{
		Name:    operation,
		Method:  http.MethodGet,
		Path:    upstream.Path("submission", "assignment", assignmentID),
		Auth:    true,
		ReadTag: TagSubmissions,
	})
	if err != nil {
		return nil, err
	}

	return upstream.Decode[[]models.Submission](operation, envelope)
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	const operation = "submissions.by_student"
	envelope, err := r.client.Do(ctx, upstream.Operation{
		Name:    operation,
		Method:  http.MethodGet,
		Path:    upstream.Path("submission", studentID),
		Auth:    true,
		ReadTag: TagStudentSubmissions,
	})
	if err != nil {
		return nil, err
	}

	return upstream.Decode[[]models.Submission](operation, envelope)
}

func (r *submissionRepository) Create(ctx context.Context, input SubmissionInput) (string, error) {
	envelope, err := r.client.Do(ctx, upstream.Operation{
		Name:           "submissions.create",
		Method:         http.MethodPost,
		Path:           upstream.Path("submission"),
		Auth:           true,
		Body:           input,
		InvalidateTags: []string{TagStudentSubmissions},
	})
	if err != nil {
		return "", err
	}

	return envelope.Message, nil
}

func (r *submissionRepository) Review(ctx context.Context, submissionID string, input ReviewInput) (string, error) {
	envelope, err := r.client.Do(ctx, upstream.Operation{
		Name:           "submissions.review",
		Method:         http.MethodPatch,
		Path:           upstream.Path("submission", submissionID, "status"),
		Auth:           true,
		Body:           input,
		InvalidateTags: []string{TagSubmissions},
	})
	if err != nil {
		return "", err
	}

	return envelope.Message, nil
}

func (r *submissionRepository) StatusStats(ctx context.Context) ([]models.StatusStat, error) {
	const operation = "submissions.stats"
	envelope, err := r.client.Do(ctx, upstream.Operation{
		Name:   operation,
		Method: http.MethodGet,
		Path:   upstream.Path("submission", "stats", "status"),
		Auth:   true,
	})
	if err != nil {
		return nil, err
	}

	return upstream.Decode[[]models.StatusStat](operation, envelope)
}
