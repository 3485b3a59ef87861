// Package middleware contains the HTTP request-defense chain: client IP
// extraction, request size ceilings, rate limiting, CSRF validation,
// security headers, and the admin authorization gate.
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
)

// UnknownClient is the rate limit identity used when no client IP can be
// determined. All such requests share one bucket, which fails toward
// stricter limiting rather than an open bypass.
const UnknownClient = "unknown"

// IPExtractor extracts client IP addresses from HTTP requests. The two
// implementations cover direct exposure (RemoteAddr only) and deployment
// behind a known reverse proxy (forwarded headers with trust validation).
type IPExtractor interface {
	// ExtractIP extracts the client IP address from an HTTP request.
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor extracts the client IP from the request's RemoteAddr.
// This is the default: the TCP peer address cannot be spoofed by a client,
// unlike forwarded headers.
type RemoteAddrExtractor struct{}

// ExtractIP extracts the IP address from r.RemoteAddr, stripping the port.
// Handles IPv4 and IPv6 forms.
func (e *RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// TrustedProxyConfig validates that forwarded headers come from a known
// reverse proxy before they are believed.
type TrustedProxyConfig struct {
	// Enabled turns header-based extraction on. When false headers are
	// never consulted.
	Enabled bool

	// AllowedCIDRs lists trusted proxy ranges.
	AllowedCIDRs []netip.Prefix
}

// NewTrustedProxyConfig builds a config from CIDR strings. Single IPs are
// accepted and widened to /32 or /128. An empty list yields a disabled
// config; header extraction stays off rather than trusting everyone.
func NewTrustedProxyConfig(cidrs []string) (TrustedProxyConfig, error) {
	config := TrustedProxyConfig{}
	for _, s := range cidrs {
		prefix, err := netip.ParsePrefix(s)
		if err != nil {
			ip, ipErr := netip.ParseAddr(s)
			if ipErr != nil {
				return TrustedProxyConfig{}, fmt.Errorf("invalid trusted proxy %q: must be an IP or CIDR range", s)
			}
			bits := 32
			if !ip.Is4() {
				bits = 128
			}
			prefix = netip.PrefixFrom(ip, bits)
		}
		config.AllowedCIDRs = append(config.AllowedCIDRs, prefix)
	}
	config.Enabled = len(config.AllowedCIDRs) > 0
	return config, nil
}

// IsTrusted reports whether remoteAddr belongs to a trusted proxy range.
func (c *TrustedProxyConfig) IsTrusted(remoteAddr string) bool {
	ip, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range c.AllowedCIDRs {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// TrustedProxyExtractor extracts the client IP from X-Forwarded-For or
// X-Real-IP when the request arrives via a trusted proxy; otherwise it
// falls back to RemoteAddr so spoofed headers cannot rotate a client's
// apparent identity.
//
// Header priority: X-Forwarded-For (first entry), then X-Real-IP, then
// RemoteAddr.
type TrustedProxyExtractor struct {
	config TrustedProxyConfig
}

// NewTrustedProxyExtractor creates an extractor with the given trust config.
func NewTrustedProxyExtractor(config TrustedProxyConfig) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{config: config}
}

// ExtractIP resolves the client IP. Requests from untrusted peers that
// carry forwarded headers are logged as potential spoofing attempts and
// resolved from RemoteAddr.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.config.Enabled {
		return extractIPFromAddr(r.RemoteAddr)
	}

	if !e.config.IsTrusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			slog.Warn("untrusted peer attempting to set X-Forwarded-For",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff),
			)
		}
		return extractIPFromAddr(r.RemoteAddr)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := parseFirstIP(xff); ip != "" {
			return ip, nil
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String(), nil
		}
	}

	return extractIPFromAddr(r.RemoteAddr)
}

// ClientID resolves the rate limit identity for a request: the extracted
// IP, or UnknownClient when extraction fails.
func ClientID(extractor IPExtractor, r *http.Request) string {
	ip, err := extractor.ExtractIP(r)
	if err != nil || ip == "" {
		return UnknownClient
	}
	return ip
}

// extractIPFromAddr extracts the IP from a "host:port" or bare IP string.
func extractIPFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(addr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}

// parseFirstIP parses the first IP from a comma-separated X-Forwarded-For
// value ("client, proxy1, proxy2"). Returns "" when the first entry is not
// a valid IP.
func parseFirstIP(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			if ip := net.ParseIP(s[:i]); ip != nil {
				return ip.String()
			}
			return ""
		}
	}
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return ""
}
