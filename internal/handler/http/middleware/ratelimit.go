package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"deptsite/internal/handler/http/respond"
	"deptsite/internal/observability/logging"
	"deptsite/pkg/ratelimit"
)

// RateLimitMiddleware enforces a preset's budget per client IP.
//
// Denied requests get 429 with Retry-After; every response carries the
// X-RateLimit-* headers so well-behaved clients can pace themselves. Store
// failures fail open: a broken limiter must not take the site down.
func RateLimitMiddleware(limiter *ratelimit.Limiter, preset ratelimit.Preset, extractor IPExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := ClientID(extractor, r)

			decision, err := limiter.Allow(r.Context(), clientID, preset)
			if err != nil {
				logger := logging.WithRequestID(r.Context(), slog.Default())
				logger.Error("rate limit check failed, allowing request",
					slog.String("action", preset.Name),
					slog.String("client", logging.TruncateID(clientID)),
					slog.Any("error", err),
				)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAtUnix(), 10))

			if !decision.Allowed {
				logger := logging.WithRequestID(r.Context(), slog.Default())
				logger.Warn("rate limit exceeded",
					slog.String("action", preset.Name),
					slog.String("client", logging.TruncateID(clientID)),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", strconv.FormatInt(decision.RetryAfterSeconds(), 10))
				respond.JSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
