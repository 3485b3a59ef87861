package middleware

import (
	"net/http"

	"deptsite/pkg/security/csp"
)

// SecurityHeadersConfig configures the header injection middleware.
type SecurityHeadersConfig struct {
	// Policy is the Content-Security-Policy to apply. Nil skips the CSP
	// header but still sets the rest.
	Policy *csp.Builder

	// HSTS controls the Strict-Transport-Security header. Disable only in
	// local development over plain HTTP.
	HSTS bool
}

// SecurityHeaders sets the OWASP-recommended response headers on every
// response that passes through it.
//
// The middleware must sit outermost in the chain and sets headers before
// delegating, so that every exit path (including early 413/429/403
// rejections from inner middleware) carries them.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	cspValue := ""
	cspHeader := ""
	if cfg.Policy != nil {
		cspValue = cfg.Policy.Build()
		cspHeader = cfg.Policy.HeaderName()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			if cspValue != "" {
				h.Set(cspHeader, cspValue)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
			if cfg.HSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
