package session

import (
	"net/http"

	"deptsite/internal/handler/http/middleware"
)

// sessionCookie builds the cookie carrying the provider access token.
// SameSite=Lax keeps the token on top-level navigations into /admin while
// still blocking cross-site subrequests.
func sessionCookie(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie(secure bool) *http.Cookie {
	c := sessionCookie("", secure)
	c.MaxAge = -1
	return c
}
