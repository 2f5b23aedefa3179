// Package session carries the caller's access token explicitly through request contexts.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/gema-dashboard/internal/models"
)

// ErrUnauthenticated indicates no access token is attached to the request.
var ErrUnauthenticated = errors.New("authentication required")

// Session is the per-request authentication state.
type Session struct {
	Token string
	User  models.User
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Decoder turns a raw access token into the user it describes.
type Decoder struct {
	secret []byte
	parser *jwt.Parser
}

// NewDecoder builds a decoder. With an empty secret the claims are read without verifying the signature.
func NewDecoder(secret string) *Decoder {
	d := &Decoder{parser: jwt.NewParser()}
	if strings.TrimSpace(secret) != "" {
		d.secret = []byte(secret)
	}
	return d
}

// Decode extracts the user claims from the token.
func (d *Decoder) Decode(token string) (models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.User{}, ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	if d.secret == nil {
		if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
			return models.User{}, fmt.Errorf("decode access token: %w", err)
		}
	} else {
		parsed, err := d.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return d.secret, nil
		})
		if err != nil || !parsed.Valid {
			return models.User{}, fmt.Errorf("verify access token: %w", err)
		}
	}

	return userFromClaims(claims), nil
}

// FromToken builds a session for the raw cookie value. A missing token yields ErrUnauthenticated.
// A token whose claims cannot be read still authenticates outbound calls; the backend decides.
func (d *Decoder) FromToken(token string) (Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Session{}, ErrUnauthenticated
	}

	user, err := d.Decode(token)
	sess := Session{Token: token, User: user}
	if err != nil {
		return sess, err
	}
	return sess, nil
}

func userFromClaims(claims jwt.MapClaims) models.User {
	return models.User{
		ID:    firstString(claims, "id", "_id", "userId", "sub"),
		Email: firstString(claims, "email"),
		Role:  models.ParseRole(firstString(claims, "role")),
	}
}

func firstString(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		value, ok := claims[key]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

type sessionKey struct{}

// WithSession attaches the session to the context.
func WithSession(ctx context.Context, sess Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionKey{}, sess)
}

// FromContext returns the session bound to the context, if any.
func FromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	sess, ok := ctx.Value(sessionKey{}).(Session)
	return sess, ok
}

// TokenFromContext returns the access token or ErrUnauthenticated when none is attached.
func TokenFromContext(ctx context.Context) (string, error) {
	sess, ok := FromContext(ctx)
	if !ok || !sess.Authenticated() {
		return "", ErrUnauthenticated
	}
	return sess.Token, nil
}

// UserFromContext returns the authenticated user or ErrUnauthenticated.
func UserFromContext(ctx context.Context) (models.User, error) {
	sess, ok := FromContext(ctx)
	if !ok || !sess.Authenticated() {
		return models.User{}, ErrUnauthenticated
	}
	return sess.User, nil
}
