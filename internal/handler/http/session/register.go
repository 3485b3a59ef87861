// Package session provides the HTTP endpoints for admin sign-in, sign-out,
// and CSRF token issuance.
package session

import (
	"net/http"

	"deptsite/internal/handler/http/middleware"
	"deptsite/internal/service/auth"
	"deptsite/pkg/ratelimit"
	"deptsite/pkg/security/csrf"
)

// Register wires the auth endpoints onto the mux. Login sits behind the
// given rate preset keyed by client IP; logout is state-changing and so
// requires the CSRF token.
func Register(
	mux *http.ServeMux,
	svc *auth.Service,
	csrfMgr *csrf.Manager,
	limiter *ratelimit.Limiter,
	loginPreset ratelimit.Preset,
	extractor middleware.IPExtractor,
	secureCookies bool,
) {
	loginLimit := middleware.RateLimitMiddleware(limiter, loginPreset, extractor)
	requireCSRF := middleware.CSRFMiddleware(csrfMgr)

	mux.Handle("POST /api/auth/login", loginLimit(LoginHandler{
		Svc:           svc,
		SecureCookies: secureCookies,
	}))
	mux.Handle("POST /api/auth/logout", requireCSRF(LogoutHandler{
		Svc:           svc,
		SecureCookies: secureCookies,
	}))
	mux.Handle("GET /api/auth/csrf", CSRFTokenHandler{Manager: csrfMgr})
}
