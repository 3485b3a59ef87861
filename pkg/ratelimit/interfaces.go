// Package ratelimit provides framework-agnostic fixed-window rate limiting.
//
// This package implements rate limiting using a pluggable storage backend and
// metrics collector. Keys are opaque strings (typically "<action>:<clientID>");
// each key owns at most one window entry at a time. The design is explicitly
// in-memory and single-node: a multi-process deployment needs a shared Store
// implementation (e.g. backed by an external counter service), and callers
// must not assume global correctness across replicas.
package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for storing and mutating rate limit state.
//
// Implementations must serialize per-key mutation: Take performs the
// check-and-increment for a key within a single critical section so that
// concurrent requests cannot produce lost updates.
type Store interface {
	// Take applies the fixed-window algorithm for the given key:
	//
	//  1. If an entry exists and its reset time has passed, delete it.
	//  2. If no entry exists, create one with count=0, resetAt=now+window.
	//  3. If entry.count >= limit, deny without incrementing.
	//  4. Otherwise increment and allow.
	//
	// Returns whether the request is allowed, the remaining budget in the
	// current window, and the window reset time.
	Take(ctx context.Context, key string, now time.Time, limit int, window time.Duration) (allowed bool, remaining int, resetAt time.Time, err error)

	// Sweep removes every entry whose reset time is before now, independent
	// of whether the key is ever looked up again. Bounds memory growth under
	// skewed traffic (many distinct one-shot keys). Returns the number of
	// entries removed.
	Sweep(ctx context.Context, now time.Time) (int, error)

	// KeyCount returns the number of live entries. Used for monitoring.
	KeyCount(ctx context.Context) (int, error)

	// Reset drops all entries. Intended for tests and administrative use.
	Reset(ctx context.Context) error
}

// Metrics defines the interface for recording rate limiting metrics.
//
// Implementations can use Prometheus or a no-op collector.
type Metrics interface {
	// RecordAllowed records a check that permitted the request.
	RecordAllowed(action string)

	// RecordDenied records a check that rejected the request.
	RecordDenied(action string)

	// SetActiveKeys records the current number of live window entries.
	SetActiveKeys(count int)

	// RecordSwept records the number of entries removed by a sweep.
	RecordSwept(count int)
}

// Clock provides an abstraction for time operations to enable testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock is a Clock implementation that uses the system time.
type SystemClock struct{}

// Now returns the current system time.
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
