package config

import (
	"fmt"
	"time"

	pkgconfig "deptsite/pkg/config"
)

// AppConfig holds process-level configuration read from the environment.
type AppConfig struct {
	// Port the HTTP server listens on.
	Port int

	// Env is "production" or "development". Production tightens the CSP
	// and forces Secure cookies.
	Env string

	// DatabaseURL is the Postgres connection string for site content
	// (contact submissions, exam records, admin profiles).
	DatabaseURL string

	// AuthProviderURL is the base URL of the external authentication
	// service.
	AuthProviderURL string

	// AuthAPIKey authenticates this backend to the auth provider.
	AuthAPIKey string

	// JWTSecret verifies session tokens locally without a provider round
	// trip.
	JWTSecret string

	// Blob storage settings for exam PDFs.
	BlobEndpoint  string
	BlobAccessKey string
	BlobSecretKey string
	BlobBucket    string
	BlobUseSSL    bool

	// WebhookURL receives contact submission notifications. Empty
	// disables notifications.
	WebhookURL string

	// TrustedProxies lists CIDR ranges allowed to set X-Forwarded-For.
	TrustedProxies []string

	// SweepInterval is how often expired rate limit entries are removed.
	SweepInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// LoadAppConfig reads configuration from environment variables, applying
// development defaults for anything unset.
func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            pkgconfig.GetEnvInt("PORT", 8080),
		Env:             pkgconfig.GetEnvString("APP_ENV", "development"),
		DatabaseURL:     pkgconfig.GetEnvString("DATABASE_URL", "postgres://localhost:5432/deptsite?sslmode=disable"),
		AuthProviderURL: pkgconfig.GetEnvString("AUTH_PROVIDER_URL", "http://localhost:9999"),
		AuthAPIKey:      pkgconfig.GetEnvString("AUTH_API_KEY", ""),
		JWTSecret:       pkgconfig.GetEnvString("JWT_SECRET", ""),
		BlobEndpoint:    pkgconfig.GetEnvString("BLOB_ENDPOINT", "localhost:9000"),
		BlobAccessKey:   pkgconfig.GetEnvString("BLOB_ACCESS_KEY", ""),
		BlobSecretKey:   pkgconfig.GetEnvString("BLOB_SECRET_KEY", ""),
		BlobBucket:      pkgconfig.GetEnvString("BLOB_BUCKET", "exam-archive"),
		BlobUseSSL:      pkgconfig.GetEnvBool("BLOB_USE_SSL", false),
		WebhookURL:      pkgconfig.GetEnvString("NOTIFY_WEBHOOK_URL", ""),
		TrustedProxies:  pkgconfig.GetEnvStringList("TRUSTED_PROXIES", nil),
		SweepInterval:   pkgconfig.GetEnvDuration("RATELIMIT_SWEEP_INTERVAL", 5*time.Minute),
		ShutdownTimeout: pkgconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if err := pkgconfig.ValidatePositiveDuration(cfg.SweepInterval); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with production hardening.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
