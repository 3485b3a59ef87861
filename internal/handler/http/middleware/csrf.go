package middleware

import (
	"log/slog"
	"net/http"

	"deptsite/internal/handler/http/respond"
	"deptsite/internal/observability/logging"
	"deptsite/pkg/security/csrf"
)

// CSRFMiddleware validates the double-submit token on state-changing
// requests. Safe methods pass through; anything else without a matching
// header/cookie pair gets 403.
func CSRFMiddleware(manager *csrf.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !manager.Validate(r) {
				logger := logging.WithRequestID(r.Context(), slog.Default())
				logger.Warn("csrf validation failed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				respond.JSON(w, http.StatusForbidden, map[string]string{
					"error": "Invalid CSRF token",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
