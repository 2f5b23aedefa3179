package dto

import "github.com/noah-isme/gema-dashboard/internal/models"

// ChartSlice is one segment of the submissions-by-status pie chart.
type ChartSlice struct {
	Status models.SubmissionStatus `json:"status"`
	Label  string                  `json:"label"`
	Count  int                     `json:"count"`
	Fill   string                  `json:"fill"`
}

// StatsChart is the instructor dashboard chart.
type StatsChart struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ListView[ChartSlice]
}
