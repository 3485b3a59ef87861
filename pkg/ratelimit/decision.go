package ratelimit

import (
	"fmt"
	"math"
	"time"
)

// Decision represents the result of a rate limit check.
//
// It carries everything a caller needs to either proceed or build a 429
// response: the verdict, the remaining budget, and the window reset time.
type Decision struct {
	// Key is the identifier the check was performed against.
	Key string

	// Allowed indicates whether the request should be permitted.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests left in the current window.
	// Always 0 when the request was denied.
	Remaining int

	// ResetAt is the time the current window expires.
	ResetAt time.Time

	// RetryAfter is ResetAt minus the check time, floored at zero.
	RetryAfter time.Duration

	// Action identifies which preset produced this decision ("login",
	// "contact", ...).
	Action string
}

// String returns a human-readable representation of the decision.
func (d *Decision) String() string {
	return fmt.Sprintf("Decision{Action: %s, Allowed: %t, Remaining: %d/%d, ResetAt: %s}",
		d.Action, d.Allowed, d.Remaining, d.Limit, d.ResetAt.Format(time.RFC3339))
}

// RetryAfterSeconds returns the retry delay rounded up to whole seconds,
// suitable for the Retry-After HTTP header. Never negative.
func (d *Decision) RetryAfterSeconds() int64 {
	if d.RetryAfter <= 0 {
		return 0
	}
	return int64(math.Ceil(d.RetryAfter.Seconds()))
}

// ResetAtUnix returns the reset time as a Unix timestamp, suitable for the
// X-RateLimit-Reset header.
func (d *Decision) ResetAtUnix() int64 {
	return d.ResetAt.Unix()
}

func newDecision(key, action string, allowed bool, limit, remaining int, resetAt, now time.Time) *Decision {
	retryAfter := resetAt.Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return &Decision{
		Key:        key,
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
		Action:     action,
	}
}
