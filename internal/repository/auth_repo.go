package repository

import (
	"context"
	"net/http"
	"strings"

	"github.com/noah-isme/gema-dashboard/internal/upstream"
)

// Credentials authenticate an existing account.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration creates a new account.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResult is what the backend returns after a successful login or registration.
type AuthResult struct {
	Message     string
	AccessToken string
}

type authData struct {
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
}

// AuthRepository exposes the backend's authentication operations.
type AuthRepository interface {
	Login(ctx context.Context, credentials Credentials) (AuthResult, error)
	Register(ctx context.Context, registration Registration) (AuthResult, error)
}

type authRepository struct {
	client *upstream.Client
}

// NewAuthRepository instantiates a backend-API repository.
func NewAuthRepository(client *upstream.Client) AuthRepository {
	return &authRepository{client: client}
}

func (r *authRepository) Login(ctx context.Context, credentials Credentials) (AuthResult, error) {
	return r.authenticate(ctx, "auth.login", upstream.Path("auth", "login"), credentials)
}

func (r *authRepository) Register(ctx context.Context, registration Registration) (AuthResult, error) {
	return r.authenticate(ctx, "auth.register", upstream.Path("auth", "register"), registration)
}

func (r *authRepository) authenticate(ctx context.Context, operation, path string, body interface{}) (AuthResult, error) {
	envelope, err := r.client.Do(ctx, upstream.Operation{
		Name:   operation,
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return AuthResult{}, err
	}

	data, err := upstream.Decode[authData](operation, envelope)
	if err != nil {
		return AuthResult{}, err
	}

	token := strings.TrimSpace(data.AccessToken)
	if token == "" {
		token = strings.TrimSpace(data.Token)
	}
	if token == "" {
		return AuthResult{}, &upstream.Error{Kind: upstream.KindDecode, Operation: operation, Message: "access token missing from response"}
	}

	return AuthResult{Message: envelope.Message, AccessToken: token}, nil
}
