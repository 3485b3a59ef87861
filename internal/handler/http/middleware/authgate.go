package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"deptsite/internal/observability/logging"
	"deptsite/internal/service/auth"
)

// SessionCookieName carries the session access token issued at login.
const SessionCookieName = "session-token"

// Authorizer resolves a session token to a privileged session.
type Authorizer interface {
	// Authorize verifies the token and looks up the admin role. It
	// returns auth.ErrInvalidSession for bad tokens and
	// auth.ErrInsufficientRole for authenticated non-admins.
	Authorize(ctx context.Context, token string) (*auth.Session, error)

	// SignOut terminates the provider session behind the token.
	SignOut(ctx context.Context, token string) error
}

// AuthGate protects the admin area. It intercepts /admin paths and /login
// before any page logic runs:
//
//   - no session on /admin          -> redirect to /login
//   - invalid session or non-admin  -> terminate the session, clear the
//     cookie, redirect to /login?error=unauthorized
//   - valid admin session on /login -> redirect to /admin
//   - provider or store outage      -> fail open to page-level checks,
//     logged
//
// Terminating the session on a role failure matters: without it a browser
// with a valid non-admin session would bounce between /login and the
// gate forever.
func AuthGate(authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			isAdmin := strings.HasPrefix(path, "/admin")
			isLogin := path == "/login"
			if !isAdmin && !isLogin {
				next.ServeHTTP(w, r)
				return
			}

			token := sessionToken(r)
			if token == "" {
				if isAdmin {
					http.Redirect(w, r, "/login", http.StatusFound)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			session, err := authorizer.Authorize(r.Context(), token)
			logger := logging.WithRequestID(r.Context(), slog.Default())

			switch {
			case err == nil:
				if isLogin {
					http.Redirect(w, r, "/admin", http.StatusFound)
					return
				}
				next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))

			case errors.Is(err, auth.ErrInvalidSession), errors.Is(err, auth.ErrInsufficientRole):
				if terminateErr := authorizer.SignOut(r.Context(), token); terminateErr != nil {
					logger.Warn("failed to terminate rejected session",
						slog.Any("error", terminateErr))
				}
				clearSessionCookie(w)
				if isAdmin {
					http.Redirect(w, r, "/login?error=unauthorized", http.StatusFound)
					return
				}
				next.ServeHTTP(w, r)

			default:
				// Outage in the auth provider or the profile store. Let
				// page-level checks decide rather than locking admins out.
				logger.Error("auth gate check failed, failing open",
					slog.String("path", path),
					slog.Any("error", err))
				next.ServeHTTP(w, r)
			}
		})
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
