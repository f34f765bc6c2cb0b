package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Upstream.HotelAPIURL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CatalogTTL)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.Email.DevMode)
	assert.False(t, cfg.Server.TrustProxy)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("UPSTREAM_TIMEOUT", "3s")
	t.Setenv("LOGIN_RATE_LIMIT", "4")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 4, cfg.RateLimit.LoginRequests)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.True(t, cfg.Server.TrustProxy)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("LOGIN_RATE_LIMIT", "many")
	t.Setenv("SESSION_TTL", "a week")
	t.Setenv("CORS_ALLOWED_ORIGINS", " , ")

	cfg := Load()

	assert.Equal(t, 10, cfg.RateLimit.LoginRequests)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
}
