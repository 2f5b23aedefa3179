package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/upstream"
)

// AssignmentInput is the body sent when creating an assignment. Deadline is an ISO-8601 timestamp.
type AssignmentInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

// AssignmentRepository exposes the backend's assignment operations.
type AssignmentRepository interface {
	List(ctx context.Context) ([]models.Assignment, error)
	Create(ctx context.Context, input AssignmentInput) (string, error)
}

type assignmentRepository struct {
	client *upstream.Client
}

// NewAssignmentRepository instantiates a backend-API repository.
func NewAssignmentRepository(client *upstream.Client) AssignmentRepository {
	return &assignmentRepository{client: client}
}

func (r *assignmentRepository) List(ctx context.Context) ([]models.Assignment, error) {
	const operation = "assignments.list"
	envelope, err := r.client.Do(ctx, upstream.Operation{
		Name:    operation,
		Method:  http.MethodGet,
		Path:    upstream.Path("assignment"),
		ReadTag: TagAssignments,
	})
	if err != nil {
		return nil, err
	}

	return upstream.Decode[[]models.Assignment](operation, envelope)
}

func (r *assignmentRepository) Create(ctx context.Context, input AssignmentInput) (string, error) {
	envelope, err := r.client.Do(ctx, upstream.Operation{
		Name:           "assignments.create",
		Method:         http.MethodPost,
		Path:           upstream.Path("assignment"),
		Auth:           true,
		Body:           input,
		InvalidateTags: []string{TagAssignments},
	})
	if err != nil {
		return "", err
	}

	return envelope.Message, nil
}
