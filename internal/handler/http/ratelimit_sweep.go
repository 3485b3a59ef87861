package http

import (
	"context"
	"log/slog"
	"time"

	"deptsite/pkg/ratelimit"
)

// DefaultSweepInterval is used when no sweep interval is configured.
const DefaultSweepInterval = 5 * time.Minute

// StartRateLimitSweep runs a background loop that periodically removes
// expired windows from the rate limiter so one-shot clients cannot grow its
// memory without bound.
//
// The loop stops when the context is cancelled, typically during server
// shutdown.
func StartRateLimitSweep(ctx context.Context, limiter *ratelimit.Limiter, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("rate limit sweep started",
		slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			logger.Info("rate limit sweep stopped")
			return

		case <-ticker.C:
			swept, err := limiter.Sweep(ctx)
			if err != nil {
				logger.Error("rate limit sweep failed",
					slog.Any("error", err))
				continue
			}
			logger.Debug("rate limit sweep completed",
				slog.Int("entries_removed", swept))
		}
	}
}
