package models

import "strings"

// Role determines which navigation set and routes a user may access.
type Role string

const (
	// RoleStudent views assignments and submits work.
	RoleStudent Role = "student"
	// RoleInstructor creates assignments and reviews submissions.
	RoleInstructor Role = "instructor"
)

// ParseRole normalises a raw role claim. Unknown values yield an empty role.
func ParseRole(raw string) Role {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleStudent, RoleInstructor:
		return role
	default:
		return ""
	}
}

// User is the authenticated account as described by the access token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// HomePath returns the dashboard landing path for the user's role.
func (u User) HomePath() string {
	if u.Role == "" {
		return "/"
	}
	return "/" + string(u.Role)
}
