// Package config loads application and security configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"deptsite/pkg/ratelimit"
)

// Request body ceilings by content type. The JSON ceiling is deliberately
// small; only the exam upload endpoint accepts multipart bodies.
const (
	DefaultJSONBodyLimit      = 500 * 1024
	DefaultMultipartBodyLimit = 10 * 1024 * 1024
	DefaultBodyLimit          = 1024 * 1024
)

// SecurityConfig represents the security section of the YAML config file.
type SecurityConfig struct {
	Security struct {
		RequestLimits RequestLimitsConfig       `yaml:"request_limits"`
		RateLimits    map[string]RatePreset     `yaml:"rate_limits"`
		Cookies       CookieConfig              `yaml:"cookies"`
		TrustedProxies []string                 `yaml:"trusted_proxies"`
		CSP           CSPConfig                 `yaml:"csp"`
	} `yaml:"security"`
}

// RequestLimitsConfig holds request body size ceilings in bytes, keyed by
// request content type class.
type RequestLimitsConfig struct {
	JSONBytes      int64 `yaml:"json_bytes"`
	MultipartBytes int64 `yaml:"multipart_bytes"`
	DefaultBytes   int64 `yaml:"default_bytes"`
}

// RatePreset is a rate limit budget as written in YAML. Window is a Go
// duration string ("15m", "1h").
type RatePreset struct {
	Limit  int      `yaml:"limit"`
	Window Duration `yaml:"window"`
}

// CookieConfig controls attributes of cookies the server issues.
type CookieConfig struct {
	// Secure marks cookies Secure. Must be true in production.
	Secure bool `yaml:"secure"`
}

// CSPConfig lists extra origins allowed in the connect-src directive
// (auth provider, object storage).
type CSPConfig struct {
	ConnectSrc []string `yaml:"connect_src"`
}

// Duration wraps time.Duration with YAML unmarshalling from duration
// strings.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// LoadSecurityConfig loads security configuration from a YAML file.
// The path is expected to come from a trusted source (command-line argument
// or hardcoded default).
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SecurityConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()

	if err := validateSecurityConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// DefaultSecurityConfig returns the configuration used when no YAML file is
// supplied.
func DefaultSecurityConfig() *SecurityConfig {
	var config SecurityConfig
	config.applyDefaults()
	config.Security.Cookies.Secure = true
	return &config
}

func (c *SecurityConfig) applyDefaults() {
	limits := &c.Security.RequestLimits
	if limits.JSONBytes <= 0 {
		limits.JSONBytes = DefaultJSONBodyLimit
	}
	if limits.MultipartBytes <= 0 {
		limits.MultipartBytes = DefaultMultipartBodyLimit
	}
	if limits.DefaultBytes <= 0 {
		limits.DefaultBytes = DefaultBodyLimit
	}
}

func validateSecurityConfig(config *SecurityConfig) error {
	limits := config.Security.RequestLimits
	if limits.JSONBytes > limits.MultipartBytes {
		return fmt.Errorf("json_bytes (%d) must not exceed multipart_bytes (%d)", limits.JSONBytes, limits.MultipartBytes)
	}

	for name, preset := range config.Security.RateLimits {
		if preset.Limit <= 0 {
			return fmt.Errorf("rate limit %q: limit must be positive, got %d", name, preset.Limit)
		}
		if preset.Window <= 0 {
			return fmt.Errorf("rate limit %q: window must be positive", name)
		}
	}

	return nil
}

// RatePreset returns the named rate limit preset, falling back to the given
// default when the config file does not override it.
func (c *SecurityConfig) RatePreset(name string, fallback ratelimit.Preset) ratelimit.Preset {
	p, ok := c.Security.RateLimits[name]
	if !ok {
		return fallback
	}
	return ratelimit.Preset{Name: name, Limit: p.Limit, Window: time.Duration(p.Window)}
}

// SecureCookies reports whether issued cookies must carry the Secure
// attribute.
func (c *SecurityConfig) SecureCookies() bool {
	return c.Security.Cookies.Secure
}

// TrustedProxies returns the CIDR ranges whose X-Forwarded-For headers are
// trusted for client IP extraction.
func (c *SecurityConfig) TrustedProxies() []string {
	return c.Security.TrustedProxies
}

// CSPConnectSrc returns extra origins for the CSP connect-src directive.
func (c *SecurityConfig) CSPConnectSrc() []string {
	return c.Security.CSP.ConnectSrc
}
