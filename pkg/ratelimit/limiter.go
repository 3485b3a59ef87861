package ratelimit

import (
	"context"
	"fmt"
)

// Limiter ties a Store, a Clock, and a Metrics collector together and
// performs fixed-window rate limit checks against named presets.
//
// The Limiter itself is stateless; all mutable state lives in the injected
// Store so it can be swapped for a distributed backing store and reset
// cleanly between tests.
type Limiter struct {
	store   Store
	clock   Clock
	metrics Metrics
}

// NewLimiter creates a Limiter. A nil clock defaults to SystemClock and a
// nil metrics collector defaults to the no-op implementation.
func NewLimiter(store Store, clock Clock, metrics Metrics) *Limiter {
	if clock == nil {
		clock = &SystemClock{}
	}
	if metrics == nil {
		metrics = &NoopMetrics{}
	}
	return &Limiter{store: store, clock: clock, metrics: metrics}
}

// Allow checks the preset's budget for the given client identifier.
//
// The store key is "<action>:<clientID>". Exactly limit calls within a
// window are allowed with strictly decreasing Remaining; the next call is
// denied with Remaining=0 until the window resets. A denied call consumes
// nothing.
func (l *Limiter) Allow(ctx context.Context, clientID string, preset Preset) (*Decision, error) {
	if err := preset.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset: %w", err)
	}

	now := l.clock.Now()
	key := preset.Key(clientID)

	allowed, remaining, resetAt, err := l.store.Take(ctx, key, now, preset.Limit, preset.Window)
	if err != nil {
		return nil, fmt.Errorf("rate limit store: %w", err)
	}

	if allowed {
		l.metrics.RecordAllowed(preset.Name)
	} else {
		l.metrics.RecordDenied(preset.Name)
	}

	if count, cerr := l.store.KeyCount(ctx); cerr == nil {
		l.metrics.SetActiveKeys(count)
	}

	return newDecision(key, preset.Name, allowed, preset.Limit, remaining, resetAt, now), nil
}

// Sweep delegates to the store's sweep using the limiter's clock and records
// the result. Intended to be driven by a periodic cleanup goroutine.
func (l *Limiter) Sweep(ctx context.Context) (int, error) {
	removed, err := l.store.Sweep(ctx, l.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("rate limit sweep: %w", err)
	}
	l.metrics.RecordSwept(removed)
	if count, cerr := l.store.KeyCount(ctx); cerr == nil {
		l.metrics.SetActiveKeys(count)
	}
	return removed, nil
}
