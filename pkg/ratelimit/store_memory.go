package ratelimit

import (
	"context"
	"sync"
	"time"
)

// windowEntry holds the fixed-window state for a single key.
//
// Invariant: count never exceeds the limit passed to Take for longer than a
// single lookup; an expired entry found during Take is deleted and recreated,
// which counts as delete+recreate, not an overflow.
type windowEntry struct {
	count   int
	resetAt time.Time
}

// InMemoryStore is a thread-safe in-memory implementation of Store.
//
// The store keeps one windowEntry per key under a single mutex. Entries are
// created lazily on first use of a key and evicted either when a later Take
// finds the entry expired or by a periodic Sweep.
//
// Memory is additionally bounded by MaxKeys: when a new key would exceed the
// cap, expired entries are dropped first, then the entries closest to their
// reset time. This is a last-resort pressure valve; under normal operation
// the Sweep keeps the map small.
type InMemoryStore struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	maxKeys int
}

// InMemoryStoreConfig holds configuration for InMemoryStore.
type InMemoryStoreConfig struct {
	// MaxKeys is the maximum number of keys to hold in memory.
	// Default: 10000
	MaxKeys int
}

// DefaultInMemoryStoreConfig returns the default configuration.
func DefaultInMemoryStoreConfig() InMemoryStoreConfig {
	return InMemoryStoreConfig{MaxKeys: 10000}
}

// NewInMemoryStore creates a new in-memory store with the given configuration.
func NewInMemoryStore(config InMemoryStoreConfig) *InMemoryStore {
	if config.MaxKeys <= 0 {
		config.MaxKeys = 10000
	}
	return &InMemoryStore{
		entries: make(map[string]*windowEntry),
		maxKeys: config.MaxKeys,
	}
}

// Take implements the fixed-window check-and-increment described on the
// Store interface. The whole operation runs under one lock acquisition so
// concurrent callers on the same key cannot lose increments.
func (s *InMemoryStore) Take(ctx context.Context, key string, now time.Time, limit int, window time.Duration) (bool, int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Expired entry: delete so the key starts a fresh window below.
	if e, ok := s.entries[key]; ok && e.resetAt.Before(now) {
		delete(s.entries, key)
	}

	e, ok := s.entries[key]
	if !ok {
		if len(s.entries) >= s.maxKeys {
			s.evictLocked(now)
		}
		e = &windowEntry{count: 0, resetAt: now.Add(window)}
		s.entries[key] = e
	}

	if e.count >= limit {
		return false, 0, e.resetAt, nil
	}

	e.count++
	return true, limit - e.count, e.resetAt, nil
}

// Sweep removes every entry whose reset time is in the past.
func (s *InMemoryStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if e.resetAt.Before(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// KeyCount returns the number of live entries.
func (s *InMemoryStore) KeyCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

// Reset drops all entries.
func (s *InMemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*windowEntry)
	return nil
}

// evictLocked frees room for one new key. Expired entries go first; if none
// are expired, the entry nearest its reset time is sacrificed since it is
// the cheapest to lose. Must be called while holding the lock.
func (s *InMemoryStore) evictLocked(now time.Time) {
	var victim string
	var victimReset time.Time

	for key, e := range s.entries {
		if e.resetAt.Before(now) {
			delete(s.entries, key)
			return
		}
		if victim == "" || e.resetAt.Before(victimReset) {
			victim = key
			victimReset = e.resetAt
		}
	}

	if victim != "" {
		delete(s.entries, victim)
	}
}
