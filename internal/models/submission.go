package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// SubmissionStatus is the review state of a submission.
type SubmissionStatus string

const (
	// SubmissionStatusPending indicates the submission awaits instructor review.
	SubmissionStatusPending SubmissionStatus = "pending"
	// SubmissionStatusReviewed indicates the instructor accepted the submission.
	SubmissionStatusReviewed SubmissionStatus = "reviewed"
	// SubmissionStatusRejected indicates the instructor rejected the submission.
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// SubmissionStatuses lists the known statuses in display order.
var SubmissionStatuses = []SubmissionStatus{
	SubmissionStatusPending,
	SubmissionStatusReviewed,
	SubmissionStatusRejected,
}

// ParseSubmissionStatus normalises the raw value and rejects unknown statuses.
func ParseSubmissionStatus(raw string) (SubmissionStatus, error) {
	status := SubmissionStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown submission status %q", raw)
	}
	return status, nil
}

// Valid reports whether the status is one of the known values.
func (s SubmissionStatus) Valid() bool {
	return slices.Contains(SubmissionStatuses, s)
}

// Badge returns the upper-case label rendered on submission cards.
func (s SubmissionStatus) Badge() string {
	return strings.ToUpper(string(s))
}

// Ref points at another entity. The backend sends either the bare id or the populated document.
type Ref struct {
	ID       string    `json:"_id"`
	Title    string    `json:"title,omitempty"`
	Email    string    `json:"email,omitempty"`
	Name     string    `json:"name,omitempty"`
	Deadline time.Time `json:"deadline,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form.
func (r *Ref) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Ref{}
		return nil
	}

	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	var doc struct {
		MongoID  string    `json:"_id"`
		ID       string    `json:"id"`
		Title    string    `json:"title"`
		Email    string    `json:"email"`
		Name     string    `json:"name"`
		Deadline time.Time `json:"deadline"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return err
	}

	id := doc.MongoID
	if id == "" {
		id = doc.ID
	}

	*r = Ref{
		ID:       id,
		Title:    doc.Title,
		Email:    doc.Email,
		Name:     doc.Name,
		Deadline: doc.Deadline,
	}
	return nil
}

// Submission is a student's response to an assignment.
type Submission struct {
	ID            string           `json:"_id"`
	Assignment    Ref              `json:"assignment"`
	Student       Ref              `json:"student"`
	SubmissionURL string           `json:"submissionUrl"`
	Note          string           `json:"note"`
	Status        SubmissionStatus `json:"status"`
	Feedback      string           `json:"feedback"`
	SubmittedAt   time.Time        `json:"submittedAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt,omitempty"`
}

// SubmittedTime returns when the work was handed in, falling back to the record creation time.
func (s Submission) SubmittedTime() time.Time {
	if !s.SubmittedAt.IsZero() {
		return s.SubmittedAt
	}
	return s.CreatedAt
}

// IsReviewed reports whether an instructor has acted on the submission.
func (s Submission) IsReviewed() bool {
	return s.Status == SubmissionStatusReviewed || s.Status == SubmissionStatusRejected
}

// StatusStat is a submission count grouped by status.
type StatusStat struct {
	Status SubmissionStatus `json:"status"`
	Count  int              `json:"count"`
}
