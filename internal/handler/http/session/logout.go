package session

import (
	"log/slog"
	"net/http"

	"deptsite/internal/handler/http/middleware"
	"deptsite/internal/handler/http/respond"
	"deptsite/internal/observability/logging"
	"deptsite/internal/service/auth"
)

// LogoutHandler revokes the provider session and clears the cookie. It
// succeeds even when the provider call fails; the cookie is gone either
// way and the token expires on its own.
type LogoutHandler struct {
	Svc           *auth.Service
	SecureCookies bool
}

func (h LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(middleware.SessionCookieName); err == nil && c.Value != "" {
		if err := h.Svc.SignOut(r.Context(), c.Value); err != nil {
			logger := logging.WithRequestID(r.Context(), slog.Default())
			logger.Warn("provider sign-out failed",
				slog.Any("error", err))
		}
	}

	http.SetCookie(w, expiredSessionCookie(h.SecureCookies))
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
