// Package cache provides a TTL key-value store with stale-while-revalidate
// reads: expired entries stay readable until replaced or removed so callers
// can serve stale data while refreshing in the background.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL applies when Set receives a non-positive duration.
const DefaultTTL = 24 * time.Hour

type entry[T any] struct {
	value     T
	createdAt time.Time
	expiresAt time.Time
}

// Store is an in-memory TTL cache. The zero value is not usable; construct
// with New.
type Store[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	clock   func() time.Time
}

// Option customises Store construction.
type Option[T any] func(*Store[T])

// WithClock overrides the time source, primarily for tests.
func WithClock[T any](clock func() time.Time) Option[T] {
	return func(s *Store[T]) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs an empty cache store.
func New[T any](opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		entries: make(map[string]entry[T]),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns the cached value for key. Expired entries are still returned
// (stale-while-revalidate); use IsExpired to decide whether a refresh is due.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

// IsExpired reports whether the entry for key is missing or past its TTL.
func (s *Store[T]) IsExpired(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return true
	}
	return !s.clock().Before(e.expiresAt)
}

// Set stores value under key with the provided TTL, replacing any previous
// entry. Non-positive TTLs fall back to DefaultTTL.
func (s *Store[T]) Set(key string, value T, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := s.clock().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{
		value:     value,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// Remove deletes the entry for key if present.
func (s *Store[T]) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes every entry.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry[T])
}

// CleanupExpired removes up to limit expired entries and reports how many
// were deleted. A non-positive limit removes all expired entries.
func (s *Store[T]) CleanupExpired(limit int) int {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}

	removed := 0
	for key, e := range s.entries {
		if now.Before(e.expiresAt) {
			continue
		}
		delete(s.entries, key)
		removed++
		if removed >= limit {
			break
		}
	}
	return removed
}

// Len returns the number of entries currently stored, expired or not.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
