package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/observability"
)

const (
	subscriberBufferSize = 16
	seenEventCapacity    = 256
)

// Event announces that every entry under Tag was dropped.
type Event struct {
	Tag           string    `json:"tag"`
	InvalidatedAt time.Time `json:"invalidatedAt"`
}

type remoteEvent struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Tags   []string  `json:"tags"`
	SentAt time.Time `json:"sentAt"`
}

// Options configures the registry's expiry and cross-replica fan-out.
type Options struct {
	TTL     time.Duration
	Redis   *redis.Client
	NATS    *nats.Conn
	Channel string
}

// Registry maps tags to cached reads and fans invalidations out to local
// subscribers and other replicas.
type Registry struct {
	store       Store
	ttl         time.Duration
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	nodeID      string
	now         func() time.Time

	mu          sync.Mutex
	subscribers map[chan Event]struct{}
	seen        map[string]struct{}
	seenOrder   []string
}

// NewRegistry wraps a store with invalidation fan-out.
func NewRegistry(store Store, opts Options, logger zerolog.Logger) *Registry {
	if store == nil {
		store = NewMemoryStore()
	}

	stream := ""
	subject := ""
	if opts.Channel != "" {
		stream = opts.Channel + ":invalidations"
		subject = strings.ReplaceAll(opts.Channel, ":", ".") + ".invalidations"
	}

	return &Registry{
		store:       store,
		ttl:         opts.TTL,
		redis:       opts.Redis,
		redisStream: stream,
		nats:        opts.NATS,
		natsSubject: subject,
		logger:      logger.With().Str("component", "cache_registry").Logger(),
		nodeID:      uuid.NewString(),
		now:         time.Now,
		subscribers: make(map[chan Event]struct{}),
		seen:        make(map[string]struct{}),
	}
}

// Start consumes invalidations published by other replicas until ctx is done.
func (r *Registry) Start(ctx context.Context) {
	if r.redis != nil && r.redisStream != "" {
		go r.consumeRedis(ctx)
	}
	if r.nats != nil && r.natsSubject != "" {
		go r.consumeNATS(ctx)
	}
}

// Get returns the memoized value for key. Store failures count as misses.
func (r *Registry) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("failed to read cache entry")
		observability.CacheLookups().WithLabelValues("error").Inc()
		return nil, false
	}
	if !ok {
		observability.CacheLookups().WithLabelValues("miss").Inc()
		return nil, false
	}
	observability.CacheLookups().WithLabelValues("hit").Inc()
	return value, true
}

// Generation returns the tag's current generation. Capture it before fetching
// and hand it back to Set. The second result is false when the store cannot
// answer, in which case the read should not be memoized.
func (r *Registry) Generation(ctx context.Context, tag string) (int64, bool) {
	generation, err := r.store.Generation(ctx, tag)
	if err != nil {
		r.logger.Warn().Err(err).Str("tag", tag).Msg("failed to read cache tag generation")
		return 0, false
	}
	return generation, true
}

// Set memoizes value under key and tag unless the tag was invalidated after
// generation was captured. It reports whether the entry was stored.
func (r *Registry) Set(ctx context.Context, key string, value []byte, tag string, generation int64) bool {
	if strings.TrimSpace(tag) == "" {
		return false
	}
	stored, err := r.store.Set(ctx, key, value, tag, generation, r.ttl)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("failed to store cache entry")
		return false
	}
	if !stored {
		r.logger.Debug().Str("key", key).Str("tag", tag).Msg("skipping cache entry fetched before invalidation")
	}
	return stored
}

// Invalidate drops every entry under the tags, notifies local subscribers and
// tells other replicas to do the same.
func (r *Registry) Invalidate(ctx context.Context, tags ...string) error {
	tags = compactTags(tags)
	if len(tags) == 0 {
		return nil
	}

	if err := r.store.Invalidate(ctx, tags...); err != nil {
		return err
	}

	r.notify(tags)

	event := remoteEvent{
		ID:     uuid.NewString(),
		Source: r.nodeID,
		Tags:   tags,
		SentAt: r.now().UTC(),
	}
	if err := r.publish(ctx, event); err != nil {
		r.logger.Warn().Err(err).Strs("tags", tags).Msg("failed to publish cache invalidation")
	}

	r.logger.Debug().Strs("tags", tags).Msg("cache tags invalidated")
	return nil
}

// Subscribe registers a listener for invalidation events. Slow listeners miss events instead of blocking writers.
func (r *Registry) Subscribe() (<-chan Event, func()) {
	channel := make(chan Event, subscriberBufferSize)

	r.mu.Lock()
	r.subscribers[channel] = struct{}{}
	r.mu.Unlock()
	observability.LiveClientsActive().Inc()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, channel)
			r.mu.Unlock()
			close(channel)
			observability.LiveClientsActive().Dec()
		})
	}

	return channel, cleanup
}

func (r *Registry) notify(tags []string) {
	at := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	for channel := range r.subscribers {
		for _, tag := range tags {
			select {
			case channel <- Event{Tag: tag, InvalidatedAt: at}:
			default:
				r.logger.Warn().Str("tag", tag).Msg("dropping invalidation event for slow subscriber")
			}
		}
	}
}

func (r *Registry) publish(ctx context.Context, event remoteEvent) error {
	if (r.redis == nil || r.redisStream == "") && (r.nats == nil || r.natsSubject == "") {
		return nil
	}

	r.markSeen(event.ID)

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if r.redis != nil && r.redisStream != "" {
		if err := r.redis.Publish(ctx, r.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if r.nats != nil && r.natsSubject != "" {
		if err := r.nats.Publish(r.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (r *Registry) consumeRedis(ctx context.Context) {
	pubsub := r.redis.Subscribe(ctx, r.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			r.logger.Error().Err(err).Msg("cache invalidation redis subscription closed")
			return
		}
		r.handleEvent(ctx, []byte(msg.Payload))
	}
}

func (r *Registry) consumeNATS(ctx context.Context) {
	// Every replica holds its own entries, so this is a plain subscription rather than a queue group.
	sub, err := r.nats.Subscribe(r.natsSubject, func(msg *nats.Msg) {
		r.handleEvent(ctx, msg.Data)
	})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to subscribe to nats invalidation subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to drain invalidation nats subscription")
		}
	}()
}

func (r *Registry) handleEvent(ctx context.Context, payload []byte) {
	var event remoteEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		r.logger.Warn().Err(err).Msg("invalid cache invalidation payload")
		return
	}

	if event.Source == r.nodeID {
		return
	}
	if event.ID != "" && !r.markSeen(event.ID) {
		return
	}

	tags := compactTags(event.Tags)
	if len(tags) == 0 {
		return
	}

	if err := r.store.Invalidate(ctx, tags...); err != nil {
		r.logger.Warn().Err(err).Strs("tags", tags).Msg("failed to apply remote invalidation")
	}
	r.notify(tags)
}

// markSeen records the event id and reports whether it was new.
func (r *Registry) markSeen(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[id]; ok {
		return false
	}
	r.seen[id] = struct{}{}
	r.seenOrder = append(r.seenOrder, id)
	if len(r.seenOrder) > seenEventCapacity {
		oldest := r.seenOrder[0]
		r.seenOrder = r.seenOrder[1:]
		delete(r.seen, oldest)
	}
	return true
}

func compactTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}
