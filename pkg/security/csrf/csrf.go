// Package csrf implements double-submit token protection for state-changing
// requests.
//
// A random token is issued in an httpOnly cookie; the frontend echoes it in
// the X-CSRF-Token request header. Because a cross-site attacker can force
// the browser to send the cookie but cannot read it to fill in the header,
// a matching pair proves the request originated from our own pages.
package csrf

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

const (
	// CookieName is the cookie carrying the server-issued token.
	CookieName = "csrf-token"

	// HeaderName is the request header the client must echo the token in.
	HeaderName = "X-CSRF-Token"

	// tokenBytes is the entropy of a token before hex encoding.
	tokenBytes = 32

	// TokenTTL is how long an issued cookie stays valid.
	TokenTTL = 24 * time.Hour
)

// GenerateToken returns a fresh token: 32 bytes from crypto/rand, hex
// encoded to 64 characters.
func GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ValidTokenPair reports whether the header token matches the cookie token.
//
// Comparison is constant time over SHA-256 digests, so neither the verdict
// timing nor length differences leak information about the cookie value.
// Empty values never match, including empty-empty.
func ValidTokenPair(headerToken, cookieToken string) bool {
	if headerToken == "" || cookieToken == "" {
		return false
	}
	a := sha256.Sum256([]byte(headerToken))
	b := sha256.Sum256([]byte(cookieToken))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// Manager issues and validates tokens against HTTP requests.
type Manager struct {
	// secureCookies marks issued cookies Secure. Enabled in production and
	// any deployment behind TLS.
	secureCookies bool
}

// NewManager creates a Manager. secureCookies should be true whenever the
// site is served over HTTPS.
func NewManager(secureCookies bool) *Manager {
	return &Manager{secureCookies: secureCookies}
}

// cookie builds the token cookie with the attributes every issuance uses.
func (m *Manager) cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// GetOrCreate returns the request's existing token or issues a new one,
// setting the cookie on the response in the latter case.
func (m *Manager) GetOrCreate(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, m.cookie(token))
	return token, nil
}

// Validate checks the request's header token against its cookie token.
//
// Safe methods (GET, HEAD, OPTIONS) pass unconditionally; every other
// method requires a matching pair.
func (m *Manager) Validate(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	cookieToken := ""
	if c, err := r.Cookie(CookieName); err == nil {
		cookieToken = c.Value
	}
	return ValidTokenPair(r.Header.Get(HeaderName), cookieToken)
}
