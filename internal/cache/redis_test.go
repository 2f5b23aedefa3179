package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisStoreInvalidatesByTag(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "test:cache")
	ctx := context.Background()

	requireStored(t)(store.Set(ctx, "student:U1", []byte(`[1]`), "StudentSubmissions", 0, time.Minute))
	requireStored(t)(store.Set(ctx, "assignments", []byte(`[2]`), "Assignments", 0, time.Minute))

	value, ok, err := store.Get(ctx, "student:U1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[1]`, string(value))

	require.NoError(t, store.Invalidate(ctx, "StudentSubmissions"))

	_, ok, err = store.Get(ctx, "student:U1")
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, mini.Exists("test:cache:tag:StudentSubmissions"))
	require.Equal(t, "1", mustGet(t, mini, "test:cache:gen:StudentSubmissions"))

	_, ok, err = store.Get(ctx, "assignments")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisStoreHonoursTTL(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "")
	ctx := context.Background()

	requireStored(t)(store.Set(ctx, "assignments", []byte(`[]`), "Assignments", 0, time.Minute))
	mini.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "assignments")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisStoreExpiresTagIndex(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "test:cache")
	requireStored(t)(store.Set(context.Background(), "student:U1", []byte(`[]`), "StudentSubmissions", 0, time.Minute))

	require.True(t, mini.Exists("test:cache:tag:StudentSubmissions"))
	require.Greater(t, mini.TTL("test:cache:tag:StudentSubmissions"), time.Duration(0))

	mini.FastForward(2 * time.Minute)
	require.False(t, mini.Exists("test:cache:tag:StudentSubmissions"))
}

func TestRedisStoreRefusesWritesFromBeforeInvalidation(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "test:cache")
	ctx := context.Background()

	generation, err := store.Generation(ctx, "Assignments")
	require.NoError(t, err)
	require.Zero(t, generation)

	require.NoError(t, store.Invalidate(ctx, "Assignments"))

	stored, err := store.Set(ctx, "assignments", []byte(`["v1"]`), "Assignments", generation, time.Minute)
	require.NoError(t, err)
	require.False(t, stored)
	require.False(t, mini.Exists("test:cache:entry:assignments"))

	current, err := store.Generation(ctx, "Assignments")
	require.NoError(t, err)
	requireStored(t)(store.Set(ctx, "assignments", []byte(`["v2"]`), "Assignments", current, time.Minute))

	value, ok, err := store.Get(ctx, "assignments")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["v2"]`, string(value))
}

func mustGet(t *testing.T, mini *miniredis.Miniredis, key string) string {
	t.Helper()
	value, err := mini.Get(key)
	require.NoError(t, err)
	return value
}
