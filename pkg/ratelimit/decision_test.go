package ratelimit

import (
	"strings"
	"testing"
	"time"
)

func TestDecision_RetryAfterSeconds(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter time.Duration
		want       int64
	}{
		{name: "whole seconds", retryAfter: 30 * time.Second, want: 30},
		{name: "fractional rounds up", retryAfter: 29*time.Second + 100*time.Millisecond, want: 30},
		{name: "sub-second rounds up to one", retryAfter: 50 * time.Millisecond, want: 1},
		{name: "zero", retryAfter: 0, want: 0},
		{name: "negative clamps to zero", retryAfter: -5 * time.Second, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Decision{RetryAfter: tt.retryAfter}
			if got := d.RetryAfterSeconds(); got != tt.want {
				t.Errorf("RetryAfterSeconds() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDecision_ResetAtUnix(t *testing.T) {
	resetAt := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	d := &Decision{ResetAt: resetAt}
	if got := d.ResetAtUnix(); got != resetAt.Unix() {
		t.Errorf("ResetAtUnix() = %d, want %d", got, resetAt.Unix())
	}
}

func TestDecision_String(t *testing.T) {
	d := &Decision{
		Action:    "login",
		Allowed:   false,
		Remaining: 0,
		Limit:     5,
		ResetAt:   time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC),
	}
	s := d.String()
	for _, want := range []string{"login", "false", "0/5"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestNewDecision_ClampsNegativeRetryAfter(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d := newDecision("k", "login", true, 5, 4, now.Add(-time.Second), now)
	if d.RetryAfter != 0 {
		t.Errorf("RetryAfter = %s, want 0", d.RetryAfter)
	}
}
