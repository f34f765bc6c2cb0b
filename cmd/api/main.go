package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/diagnosis/hotel-frontdesk/internal/access"
	"github.com/diagnosis/hotel-frontdesk/internal/hotelapi"
	"github.com/diagnosis/hotel-frontdesk/internal/http/handlers"
	ratelimit "github.com/diagnosis/hotel-frontdesk/internal/http/middleware"
	"github.com/diagnosis/hotel-frontdesk/internal/notify"
	"github.com/diagnosis/hotel-frontdesk/internal/platform/mailer"
	"github.com/diagnosis/hotel-frontdesk/internal/repo/postgres"
	"github.com/diagnosis/hotel-frontdesk/pkg/auth"
	"github.com/diagnosis/hotel-frontdesk/pkg/cache"
	"github.com/diagnosis/hotel-frontdesk/pkg/config"
	"github.com/diagnosis/hotel-frontdesk/pkg/database"
	"github.com/diagnosis/hotel-frontdesk/pkg/events"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
	mw "github.com/diagnosis/hotel-frontdesk/pkg/middleware"
	"github.com/diagnosis/hotel-frontdesk/pkg/telemetry"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", "error", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, cfg.Telemetry.ServiceName)

	// Catalog cache and idempotency replies share Redis when configured.
	var (
		store       cache.Store = cache.Nop{}
		idempotency mw.IdempotencyStore
	)
	if cfg.Redis.URL != "" {
		rs, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		store, idempotency = rs, rs
		logger.Info("Redis cache enabled", "ttl", cfg.Redis.CatalogTTL)
	}

	var bus events.EventBus = events.NewLocalBus()
	if cfg.NATS.URL != "" {
		nb, err := events.NewNATSEventBus(cfg.NATS.URL, cfg.Telemetry.ServiceName)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = nb
		logger.Info("NATS event bus enabled")
	}
	defer bus.Close()

	var limiter ratelimit.Limiter
	if cfg.Database.URL != "" {
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			os.Exit(1)
		}
		rl := postgres.NewRateLimitRepo(pool)
		limiter = rl
		if idempotency == nil {
			idem := postgres.NewIdempotencyRepo(pool)
			idempotency = idem
			go cleanupExpired(ctx, "idempotency", idem, time.Hour)
		}
		go cleanupExpired(ctx, "rate_limit", rl, cfg.RateLimit.LoginWindow)
	} else {
		logger.Warn("DATABASE_URL not set, login rate limiting disabled")
	}

	var mail mailer.Service = mailer.NewDevMailer()
	if !cfg.Email.DevMode && cfg.Email.MailerSendKey != "" {
		mail = mailer.NewMailer(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}
	if err := notify.NewReceipts(mail).Subscribe(bus); err != nil {
		logger.Error("Failed to subscribe receipt worker", "error", err)
		os.Exit(1)
	}

	api := hotelapi.New(cfg.Upstream.HotelAPIURL, cfg.Upstream.Timeout,
		hotelapi.WithCache(store, cfg.Redis.CatalogTTL),
		hotelapi.WithHTTPClient(&http.Client{
			Timeout:   cfg.Upstream.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}),
	)

	gate, err := access.NewGate(auth.NewVerifier(cfg.Auth.JWTSecret).WithLeeway(30*time.Second), access.DefaultTable())
	if err != nil {
		logger.Error("Invalid access table", "error", err)
		os.Exit(1)
	}

	router := handlers.NewRouter(handlers.Deps{
		ServiceName:    cfg.Telemetry.ServiceName,
		API:            api,
		Gate:           gate,
		Bus:            bus,
		Idempotency:    idempotency,
		IdempotencyTTL: 24 * time.Hour,
		Limiter:        limiter,
		LoginRequests:  cfg.RateLimit.LoginRequests,
		LoginWindow:    cfg.RateLimit.LoginWindow,
		Cookies: handlers.CookieConfig{
			TTL:    cfg.Auth.SessionTTL,
			Secure: cfg.Auth.CookieSecure,
			Domain: cfg.Auth.CookieDomain,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustProxy:     cfg.Server.TrustProxy,
		Hotel:          hotelapi.NewForwarder(cfg.Upstream.HotelAPIURL, "hotel-api", cfg.Upstream.Timeout),
		Pages:          hotelapi.NewForwarder(cfg.Upstream.FrontendURL, "frontend", cfg.Upstream.Timeout),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      otelhttp.NewHandler(router, "frontdesk"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Info("Shutting down front desk gateway...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("Tracer shutdown error", "error", err)
		}
	}()

	logger.Info("Starting front desk gateway",
		"port", cfg.Server.Port,
		"hotel_api", cfg.Upstream.HotelAPIURL,
		"frontend", cfg.Upstream.FrontendURL,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	<-done
}

type expirer interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// cleanupExpired purges expired rows from repo on a fixed interval.
func cleanupExpired(ctx context.Context, name string, repo expirer, every time.Duration) {
	if every <= 0 {
		every = 15 * time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.CleanupExpired(ctx)
			if err != nil {
				logger.Warn("Cleanup failed", "table", name, "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("Expired rows removed", "table", name, "count", n)
			}
		}
	}
}
