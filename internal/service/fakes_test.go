package service

import (
	"context"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-dashboard/internal/models"
	"github.com/noah-isme/gema-dashboard/internal/repository"
	"github.com/noah-isme/gema-dashboard/internal/session"
	"github.com/noah-isme/gema-dashboard/internal/upstream"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterValidations(v))
	return v
}

func studentContext(id string) context.Context {
	return session.WithSession(context.Background(), session.Session{
		Token: "tok",
		User:  models.User{ID: id, Email: id + "@example.com", Role: models.RoleStudent},
	})
}

func applicationError(operation, message string) error {
	return &upstream.Error{Kind: upstream.KindApplication, Operation: operation, Message: message}
}

type fakeAssignmentRepo struct {
	mu          sync.Mutex
	assignments []models.Assignment
	listErr     error
	createErr   error
	created     []repository.AssignmentInput
}

func (f *fakeAssignmentRepo) List(ctx context.Context) ([]models.Assignment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.assignments, nil
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, input repository.AssignmentInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, input)
	return "Assignment created successfully", nil
}

type reviewCall struct {
	id    string
	input repository.ReviewInput
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions map[string][]models.Submission
	stats       []models.StatusStat
	err         error
	listed      []string
	created     []repository.SubmissionInput
	reviewed    []reviewCall
}

func (f *fakeSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, "assignment:"+assignmentID)
	if f.err != nil {
		return nil, f.err
	}
	return f.submissions[assignmentID], nil
}

func (f *fakeSubmissionRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, "student:"+studentID)
	if f.err != nil {
		return nil, f.err
	}
	return f.submissions[studentID], nil
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, input repository.SubmissionInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, input)
	return "Submission created", nil
}

func (f *fakeSubmissionRepo) Review(ctx context.Context, submissionID string, input repository.ReviewInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.reviewed = append(f.reviewed, reviewCall{id: submissionID, input: input})
	return "Status updated", nil
}

func (f *fakeSubmissionRepo) StatusStats(ctx context.Context) ([]models.StatusStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

type fakeAuthRepo struct {
	result       repository.AuthResult
	err          error
	logins       []repository.Credentials
	registration []repository.Registration
}

func (f *fakeAuthRepo) Login(ctx context.Context, credentials repository.Credentials) (repository.AuthResult, error) {
	f.logins = append(f.logins, credentials)
	return f.result, f.err
}

func (f *fakeAuthRepo) Register(ctx context.Context, registration repository.Registration) (repository.AuthResult, error) {
	f.registration = append(f.registration, registration)
	return f.result, f.err
}
