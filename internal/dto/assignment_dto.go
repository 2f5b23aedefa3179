package dto

import (
	"time"

	"github.com/noah-isme/gema-dashboard/internal/models"
)

// AssignmentForm is the create-assignment form. Deadline is the raw datetime-local input.
type AssignmentForm struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Deadline    string `json:"deadline" validate:"required,deadline"`
}

// Values returns the entered values so a failed form can be redisplayed.
func (f AssignmentForm) Values() map[string]string {
	return map[string]string{
		"title":       f.Title,
		"description": f.Description,
		"deadline":    f.Deadline,
	}
}

// AssignmentCard is an assignment as rendered in the list grid.
type AssignmentCard struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	PastDue     bool      `json:"pastDue"`
}

// NewAssignmentCard converts a model into a card.
func NewAssignmentCard(model models.Assignment, now time.Time) AssignmentCard {
	return AssignmentCard{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Deadline:    model.Deadline,
		PastDue:     model.IsPastDeadline(now),
	}
}

// NewAssignmentCardSlice converts a slice of models into cards.
func NewAssignmentCardSlice(assignments []models.Assignment, now time.Time) []AssignmentCard {
	cards := make([]AssignmentCard, 0, len(assignments))
	for _, assignment := range assignments {
		cards = append(cards, NewAssignmentCard(assignment, now))
	}
	return cards
}
