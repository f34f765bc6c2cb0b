package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Auth      AuthConfig
	Upstream  UpstreamConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	// TrustProxy honors X-Forwarded-For and X-Real-IP. Enable only when a
	// reverse proxy that overwrites them is the sole way in.
	TrustProxy bool
}

// DatabaseConfig is only used for login rate-limit counters.
// An empty URL disables rate limiting.
type DatabaseConfig struct {
	URL         string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
}

type RedisConfig struct {
	URL        string
	CatalogTTL time.Duration
}

type NATSConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	CookieDomain string
}

// UpstreamConfig points at the hotel booking API and the page front end.
type UpstreamConfig struct {
	HotelAPIURL string
	FrontendURL string
	Timeout     time.Duration
}

type EmailConfig struct {
	MailerSendKey string
	FromName      string
	FromEmail     string
	DevMode       bool // print emails to logs instead of sending
}

type RateLimitConfig struct {
	LoginRequests int
	LoginWindow   time.Duration
}

type TelemetryConfig struct {
	ServiceName string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			ReadTimeout:    getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:   getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			TrustProxy:     getBool("TRUST_PROXY", false),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			MaxConns:    getInt("DB_MAX_CONNS", 10),
			MinConns:    getInt("DB_MIN_CONNS", 1),
			MaxLifetime: getDuration("DB_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			CatalogTTL: getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", "dev-only-secret-change-in-prod"),
			SessionTTL:   getDuration("SESSION_TTL", 7*24*time.Hour),
			CookieSecure: getBool("COOKIE_SECURE", false),
			CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		},
		Upstream: UpstreamConfig{
			HotelAPIURL: getEnv("HOTEL_API_URL", "http://localhost:8000"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
			Timeout:     getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Email: EmailConfig{
			MailerSendKey: getEnv("MAILERSEND_API_KEY", ""),
			FromName:      getEnv("EMAIL_FROM_NAME", "Hotel Front Desk"),
			FromEmail:     getEnv("EMAIL_FROM", "noreply@hotel.local"),
			DevMode:       getBool("EMAIL_DEV_MODE", true),
		},
		RateLimit: RateLimitConfig{
			LoginRequests: getInt("LOGIN_RATE_LIMIT", 10),
			LoginWindow:   getDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		},
		Telemetry: TelemetryConfig{
			ServiceName: getEnv("OTEL_SERVICE_NAME", "hotel-frontdesk"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

// getList reads a comma separated list, dropping empty entries.
func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
