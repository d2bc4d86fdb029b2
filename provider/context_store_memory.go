package provider

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process ContextStore. Expired entries are dropped
// lazily on Load and in bulk by Prune.
type MemoryStore[C any] struct {
	mu    sync.RWMutex
	items map[string]memEntry[C]
	now   func() time.Time
}

type memEntry[C any] struct {
	val       C
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore[C any]() *MemoryStore[C] {
	return &MemoryStore[C]{
		items: make(map[string]memEntry[C]),
		now:   time.Now,
	}
}

// WithClock replaces the clock used for expiry. Intended for tests.
func (s *MemoryStore[C]) WithClock(now func() time.Time) *MemoryStore[C] {
	s.now = now
	return s
}

// Load returns a copy of the stored value so callers cannot mutate shared state.
func (s *MemoryStore[C]) Load(_ context.Context, key string) (*C, error) {
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.expired(entry) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, nil
	}
	val := entry.val
	return &val, nil
}

// Save stores a copy of val.
func (s *MemoryStore[C]) Save(_ context.Context, key string, val *C, ttl time.Duration) error {
	entry := memEntry[C]{val: *val}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.items[key] = entry
	s.mu.Unlock()
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *MemoryStore[C]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Prune removes every expired entry and returns how many were dropped.
func (s *MemoryStore[C]) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.items {
		if s.expired(e) {
			delete(s.items, k)
			n++
		}
	}
	return n
}

// Len returns the number of entries including expired ones not yet pruned.
func (s *MemoryStore[C]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore[C]) expired(e memEntry[C]) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

var _ ContextStore[any] = (*MemoryStore[any])(nil)
