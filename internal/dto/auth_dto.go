package dto

import "github.com/noah-isme/gema-dashboard/internal/models"

// LoginForm authenticates an existing account.
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Values returns the entered values without the password.
func (f LoginForm) Values() map[string]string {
	return map[string]string{"email": f.Email}
}

// RegisterForm creates a new account.
type RegisterForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=student instructor"`
}

// Values returns the entered values without the password.
func (f RegisterForm) Values() map[string]string {
	return map[string]string{"email": f.Email, "role": f.Role}
}

// AuthOutcome pairs a form result with the token to store in the session cookie.
type AuthOutcome struct {
	FormResult
	AccessToken string `json:"-"`
}

// NavItem is one sidebar entry.
type NavItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Navigation is the role-specific sidebar.
type Navigation struct {
	User  models.User `json:"user"`
	Items []NavItem   `json:"items"`
}

// LogoutResult tells the client where to go after the session cookie is cleared.
type LogoutResult struct {
	Redirect string `json:"redirect,omitempty"`
}
