package models

import "time"

// Assignment is an instructor-authored task with a deadline.
type Assignment struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// IsPastDeadline reports whether the assignment deadline has elapsed at the provided time.
func (a Assignment) IsPastDeadline(now time.Time) bool {
	if a.Deadline.IsZero() {
		return false
	}
	return now.After(a.Deadline)
}
