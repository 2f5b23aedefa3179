package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	tag       string
	expiresAt time.Time
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu          sync.Mutex
	entries     map[string]memoryEntry
	tagged      map[string]map[string]struct{}
	generations map[string]int64
	now         func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     make(map[string]memoryEntry),
		tagged:      make(map[string]map[string]struct{}),
		generations: make(map[string]int64),
		now:         time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.removeLocked(key)
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (s *MemoryStore) Generation(_ context.Context, tag string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[tag], nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, tag string, generation int64, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generations[tag] != generation {
		return false, nil
	}

	s.removeLocked(key)

	entry := memoryEntry{
		value: append([]byte(nil), value...),
		tag:   tag,
	}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = entry

	keys, ok := s.tagged[tag]
	if !ok {
		keys = make(map[string]struct{})
		s.tagged[tag] = keys
	}
	keys[key] = struct{}{}
	return true, nil
}

func (s *MemoryStore) Invalidate(_ context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		for key := range s.tagged[tag] {
			s.removeLocked(key)
		}
		delete(s.tagged, tag)
		s.generations[tag]++
	}
	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) removeLocked(key string) {
	entry, ok := s.entries[key]
	if !ok {
		return
	}
	delete(s.entries, key)
	if keys, ok := s.tagged[entry.tag]; ok {
		delete(keys, key)
		if len(keys) == 0 {
			delete(s.tagged, entry.tag)
		}
	}
}
