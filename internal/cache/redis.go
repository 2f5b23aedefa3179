package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached entries between replicas. Each tag is a Redis set of entry keys.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore builds a store that namespaces its keys under prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "dashboard:cache"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) entryKey(key string) string {
	return fmt.Sprintf("%s:entry:%s", s.prefix, key)
}

func (s *RedisStore) tagKey(tag string) string {
	return fmt.Sprintf("%s:tag:%s", s.prefix, tag)
}

func (s *RedisStore) generationKey(tag string) string {
	return fmt.Sprintf("%s:gen:%s", s.prefix, tag)
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Generation(ctx context.Context, tag string) (int64, error) {
	generation, err := s.client.Get(ctx, s.generationKey(tag)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Set writes the entry only while the tag is still at generation. The generation
// key is watched so an invalidation racing the write aborts the transaction.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, tag string, generation int64, ttl time.Duration) (bool, error) {
	entryKey := s.entryKey(key)
	tagKey := s.tagKey(tag)
	generationKey := s.generationKey(tag)

	stored := false
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, entryKey, value, ttl)
			pipe.SAdd(ctx, tagKey, entryKey)
			if ttl > 0 {
				pipe.Expire(ctx, tagKey, ttl)
			}
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, generationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return stored, err
}

// Invalidate bumps the generation first so in-flight writes are refused, then
// drops the entries already indexed under the tag.
func (s *RedisStore) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		if err := s.client.Incr(ctx, s.generationKey(tag)).Err(); err != nil {
			return err
		}

		tagKey := s.tagKey(tag)
		members, err := s.client.SMembers(ctx, tagKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		keys := append(members, tagKey)
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}
