// Package cache implements a tag-keyed response cache with explicit invalidation.
package cache

import (
	"context"
	"time"
)

// Store memoizes values under keys grouped by tag. Every invalidation bumps the
// tag's generation, and Set refuses writes captured under an older generation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Generation(ctx context.Context, tag string) (int64, error)
	Set(ctx context.Context, key string, value []byte, tag string, generation int64, ttl time.Duration) (bool, error)
	Invalidate(ctx context.Context, tags ...string) error
}
