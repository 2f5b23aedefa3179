package dto

import (
	"time"

	"github.com/noah-isme/gema-dashboard/internal/models"
)

// FeedbackForm is the instructor's review modal.
type FeedbackForm struct {
	Status   string `json:"status" validate:"required,oneof=pending reviewed rejected"`
	Feedback string `json:"feedback" validate:"required"`
}

// Values returns the entered values so a failed form can be redisplayed.
func (f FeedbackForm) Values() map[string]string {
	return map[string]string{
		"status":   f.Status,
		"feedback": f.Feedback,
	}
}

// SubmitWorkForm is the student's submit modal. Assignment and student are supplied by the route and session.
type SubmitWorkForm struct {
	SubmissionURL string `json:"submissionUrl" validate:"required"`
	Note          string `json:"note" validate:"required"`
}

// Values returns the entered values so a failed form can be redisplayed.
func (f SubmitWorkForm) Values() map[string]string {
	return map[string]string{
		"submissionUrl": f.SubmissionURL,
		"note":          f.Note,
	}
}

// SubmissionCard is a submission as rendered in the list grid.
type SubmissionCard struct {
	ID              string                  `json:"id"`
	AssignmentID    string                  `json:"assignmentId"`
	AssignmentTitle string                  `json:"assignmentTitle,omitempty"`
	StudentID       string                  `json:"studentId"`
	StudentEmail    string                  `json:"studentEmail,omitempty"`
	SubmissionURL   string                  `json:"submissionUrl"`
	Note            string                  `json:"note"`
	Status          models.SubmissionStatus `json:"status"`
	Badge           string                  `json:"badge"`
	Feedback        string                  `json:"feedback,omitempty"`
	SubmittedAt     *time.Time              `json:"submittedAt,omitempty"`
}
