package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"deptsite/internal/config"
	"deptsite/internal/infra/authprovider"
	"deptsite/internal/infra/blob"
	"deptsite/internal/infra/db"
	"deptsite/internal/infra/notifier"
	"deptsite/internal/observability/tracing"
	"deptsite/pkg/ratelimit"
	"deptsite/pkg/security/csp"
	"deptsite/pkg/security/csrf"

	contactUC "deptsite/internal/usecase/contact"
	examUC "deptsite/internal/usecase/exam"

	httpapi "deptsite/internal/handler/http"
	hcontact "deptsite/internal/handler/http/contact"
	hexams "deptsite/internal/handler/http/exams"
	"deptsite/internal/handler/http/middleware"
	"deptsite/internal/handler/http/requestid"
	hsession "deptsite/internal/handler/http/session"
	pgRepo "deptsite/internal/infra/adapter/persistence/postgres"
	"deptsite/internal/observability/logging"
	authservice "deptsite/internal/service/auth"
)

func main() {
	logger := initLogger()

	appCfg, err := config.LoadAppConfig()
	if err != nil {
		logger.Error("invalid application configuration", slog.Any("error", err))
		os.Exit(1)
	}
	securityCfg := loadSecurityConfig(logger)

	database := initDatabase(logger, appCfg)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	components := setupServer(logger, appCfg, securityCfg, database)

	runServer(logger, appCfg, components)
}

// initLogger creates the process-wide structured logger with sensitive-field
// redaction and installs it as the slog default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// loadSecurityConfig reads the security YAML named by SECURITY_CONFIG_PATH,
// or falls back to the built-in hardened defaults when unset.
func loadSecurityConfig(logger *slog.Logger) *config.SecurityConfig {
	path := os.Getenv("SECURITY_CONFIG_PATH")
	if path == "" {
		logger.Info("no security config file set, using defaults")
		return config.DefaultSecurityConfig()
	}

	cfg, err := config.LoadSecurityConfig(path)
	if err != nil {
		logger.Error("failed to load security configuration",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("security configuration loaded", slog.String("path", path))
	return cfg
}

// initDatabase opens the content database and runs pending migrations.
func initDatabase(logger *slog.Logger, cfg *config.AppConfig) *sql.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Open(ctx, cfg.DatabaseURL, db.ConnectionConfigFromEnv())
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}

// ServerComponents holds what runServer needs beyond the handler itself.
type ServerComponents struct {
	Handler http.Handler
	Limiter *ratelimit.Limiter
	Sweep   time.Duration
}

// setupServer wires repositories, external clients, services, routes, and
// the middleware chain.
func setupServer(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	securityCfg *config.SecurityConfig,
	database *sql.DB,
) *ServerComponents {
	secureCookies := securityCfg.SecureCookies() || appCfg.IsProduction()

	provider := authprovider.NewClient(authprovider.Config{
		BaseURL: appCfg.AuthProviderURL,
		APIKey:  appCfg.AuthAPIKey,
	}, logger)
	authSvc := authservice.NewService(
		provider,
		pgRepo.NewProfileRepo(database),
		[]byte(appCfg.JWTSecret),
		logger,
	)

	blobs := initBlobStore(logger, appCfg)

	var notify notifier.Notifier = &notifier.NoOpNotifier{}
	if appCfg.WebhookURL != "" {
		notify = notifier.NewWebhookNotifier(notifier.WebhookConfig{URL: appCfg.WebhookURL}, logger)
		logger.Info("contact notifications enabled")
	} else {
		logger.Info("contact notifications disabled, no webhook URL set")
	}

	contactSvc := &contactUC.Service{
		Repo:     pgRepo.NewContactRepo(database),
		Notifier: notify,
		Logger:   logger,
	}
	examSvc := &examUC.Service{
		Repo:   pgRepo.NewExamRepo(database),
		Blobs:  blobs,
		Logger: logger,
	}

	// Per-endpoint rate budgets, with config file overrides.
	loginPreset := securityCfg.RatePreset("login", ratelimit.LoginPreset)
	contactPreset := securityCfg.RatePreset("contact", ratelimit.ContactPreset)
	uploadPreset := securityCfg.RatePreset("upload", ratelimit.UploadPreset)

	store := ratelimit.NewInMemoryStore(ratelimit.DefaultInMemoryStoreConfig())
	limiter := ratelimit.NewLimiter(store, nil, ratelimit.NewPrometheusMetrics(prometheus.DefaultRegisterer))

	extractor := initIPExtractor(logger, appCfg, securityCfg)

	csrfMgr := csrf.NewManager(secureCookies)

	mux := http.NewServeMux()
	hsession.Register(mux, authSvc, csrfMgr, limiter, loginPreset, extractor, secureCookies)
	hcontact.Register(mux, contactSvc, csrfMgr, limiter, contactPreset, extractor, authSvc)
	hexams.Register(mux, examSvc, csrfMgr, limiter, uploadPreset, extractor, authSvc)

	mux.Handle("/healthz", &httpapi.HealthHandler{
		DB:               database,
		Version:          getVersion(),
		RateLimiterStore: store,
		CSPEnabled:       true,
	})
	mux.Handle("/readyz", &httpapi.ReadyHandler{DB: database})
	mux.Handle("/livez", &httpapi.LiveHandler{})
	mux.Handle("/metrics", httpapi.MetricsHandler())

	handler := applyMiddleware(logger, appCfg, securityCfg, authSvc, mux)

	return &ServerComponents{
		Handler: handler,
		Limiter: limiter,
		Sweep:   appCfg.SweepInterval,
	}
}

// initBlobStore connects to object storage and makes sure the exam bucket
// exists before the first upload needs it.
func initBlobStore(logger *slog.Logger, cfg *config.AppConfig) blob.Store {
	store, err := blob.NewMinioStore(blob.Config{
		Endpoint:  cfg.BlobEndpoint,
		AccessKey: cfg.BlobAccessKey,
		SecretKey: cfg.BlobSecretKey,
		Bucket:    cfg.BlobBucket,
		UseSSL:    cfg.BlobUseSSL,
	})
	if err != nil {
		logger.Error("failed to configure blob storage", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		logger.Error("failed to ensure blob bucket",
			slog.String("bucket", cfg.BlobBucket),
			slog.Any("error", err))
		os.Exit(1)
	}
	return store
}

// initIPExtractor decides how the client IP is derived for rate limiting.
// Proxy headers are only believed when trusted CIDR ranges are configured.
func initIPExtractor(logger *slog.Logger, appCfg *config.AppConfig, securityCfg *config.SecurityConfig) middleware.IPExtractor {
	cidrs := appCfg.TrustedProxies
	if len(cidrs) == 0 {
		cidrs = securityCfg.TrustedProxies()
	}
	if len(cidrs) == 0 {
		logger.Info("rate limiting: using RemoteAddr, proxy headers ignored")
		return &middleware.RemoteAddrExtractor{}
	}

	proxyCfg, err := middleware.NewTrustedProxyConfig(cidrs)
	if err != nil {
		logger.Error("invalid trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("rate limiting: trusted proxy mode enabled",
		slog.Int("trusted_proxies_count", len(cidrs)))
	return middleware.NewTrustedProxyExtractor(proxyCfg)
}

// applyMiddleware wraps the mux with the request-defense chain, applied in
// reverse so security headers sit outermost and cover every response,
// including rejections produced by the inner layers.
func applyMiddleware(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	securityCfg *config.SecurityConfig,
	authSvc *authservice.Service,
	handler http.Handler,
) http.Handler {
	limits := securityCfg.Security.RequestLimits
	sizeLimits := middleware.SizeLimits{
		JSONBytes:      limits.JSONBytes,
		MultipartBytes: limits.MultipartBytes,
		DefaultBytes:   limits.DefaultBytes,
	}

	var policy *csp.Builder
	if appCfg.IsProduction() {
		policy = csp.ProductionPolicy(securityCfg.CSPConnectSrc()...)
	} else {
		policy = csp.DevelopmentPolicy(securityCfg.CSPConnectSrc()...)
	}

	chain := handler
	chain = middleware.SizeLimitMiddleware(sizeLimits)(chain)
	chain = middleware.AuthGate(authSvc)(chain)
	chain = httpapi.MetricsMiddleware(chain)
	chain = httpapi.Logging(logger)(chain)
	chain = httpapi.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.SecurityHeaders(middleware.SecurityHeadersConfig{
		Policy: policy,
		HSTS:   appCfg.IsProduction(),
	})(chain)

	return chain
}

// runServer starts the HTTP server and the rate limit sweep, then blocks
// until a termination signal arrives and shutdown completes.
func runServer(logger *slog.Logger, cfg *config.AppConfig, components *ServerComponents) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		httpapi.StartRateLimitSweep(groupCtx, components.Limiter, components.Sweep, logger)
		return nil
	})

	group.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("env", cfg.Env),
			slog.String("version", getVersion()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
