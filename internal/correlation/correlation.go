// Package correlation carries the request correlation id through context.Context
// so outbound calls can forward it without depending on the HTTP layer.
package correlation

import (
	"context"
	"strings"
)

// Header is the request and response header holding the correlation id.
const Header = "X-Correlation-ID"

type idKey struct{}

// WithID attaches the correlation id to ctx. Blank ids leave ctx untouched.
func WithID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, idKey{}, id)
}

// FromContext returns the correlation id bound to ctx, if any.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(idKey{}).(string)
	return id
}
