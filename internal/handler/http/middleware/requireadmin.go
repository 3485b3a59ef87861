package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"deptsite/internal/handler/http/respond"
	"deptsite/internal/observability/logging"
	"deptsite/internal/service/auth"
)

// RequireAdmin protects the /api/admin endpoints. Unlike the page gate it
// answers in JSON and fails closed: the API is the final check, so an auth
// outage returns 503 rather than letting the request through.
func RequireAdmin(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				respond.JSON(w, http.StatusUnauthorized, map[string]string{
					"error": "Authentication required",
				})
				return
			}

			session, err := authorizer.Authorize(r.Context(), token)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))

			case errors.Is(err, auth.ErrInvalidSession):
				respond.JSON(w, http.StatusUnauthorized, map[string]string{
					"error": "Authentication required",
				})

			case errors.Is(err, auth.ErrInsufficientRole):
				respond.JSON(w, http.StatusForbidden, map[string]string{
					"error": "Admin access required",
				})

			default:
				logger := logging.WithRequestID(r.Context(), slog.Default())
				logger.Error("admin authorization check failed",
					slog.String("path", r.URL.Path),
					slog.Any("error", err))
				respond.JSON(w, http.StatusServiceUnavailable, map[string]string{
					"error": "Service temporarily unavailable",
				})
			}
		})
	}
}
