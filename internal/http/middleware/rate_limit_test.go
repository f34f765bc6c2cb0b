package middleware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLimiter struct {
	hits map[string]int
	err  error
}

func (c *countingLimiter) Hit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if c.err != nil {
		return true, c.err
	}
	c.hits[key]++
	return c.hits[key] <= limit, nil
}

func loginRequest(email, ip string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"`+email+`","password":"x"}`))
	req.RemoteAddr = ip + ":40000"
	return req
}

func TestLoginKeyFunc_KeepsBody(t *testing.T) {
	req := loginRequest(" Tamu@Hotel.com ", "203.0.113.9")

	keys := LoginKeyFunc(req)
	assert.Equal(t, []string{"ip:203.0.113.9", "email:tamu@hotel.com"}, keys)

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"password":"x"`)
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	lim := &countingLimiter{hits: map[string]int{}}
	rl := NewRateLimiter(lim, RateLimitConfig{Requests: 2, Window: time.Minute, KeyFunc: LoginKeyFunc}, nil)

	passed := 0
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed++
		b, _ := io.ReadAll(r.Body)
		assert.NotEmpty(t, b)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		h.ServeHTTP(last, loginRequest("a@b.co", "198.51.100.1"))
	}

	assert.Equal(t, 2, passed)
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))

	// a different account from another IP is unaffected
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, loginRequest("c@d.co", "198.51.100.2"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	lim := &countingLimiter{hits: map[string]int{}, err: errors.New("db down")}
	rl := NewRateLimiter(lim, RateLimitConfig{Requests: 0, Window: time.Minute, KeyFunc: LoginKeyFunc}, nil)

	rec := httptest.NewRecorder()
	rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rec, loginRequest("a@b.co", "1.2.3.4"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", ClientIP(req))

	req.RemoteAddr = "192.0.2.8"
	assert.Equal(t, "192.0.2.8", ClientIP(req))
}

func TestClientIP_IgnoresSpoofedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	req.Header.Set("X-Real-IP", "203.0.113.2")
	assert.Equal(t, "192.0.2.7", ClientIP(req))
}

func TestLoginKeyFunc_RotatingForwardedForSharesBucket(t *testing.T) {
	lim := &countingLimiter{hits: map[string]int{}}
	rl := NewRateLimiter(lim, RateLimitConfig{Requests: 2, Window: time.Minute, KeyFunc: LoginKeyFunc}, nil)
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := loginRequest(fmt.Sprintf("u%d@b.co", i), "198.51.100.7")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		last = httptest.NewRecorder()
		h.ServeHTTP(last, req)
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Equal(t, 3, lim.hits["ip:198.51.100.7"])
}

func TestRealIP_BehindTrustedProxy(t *testing.T) {
	var got string
	h := middleware.RealIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.5", got)
}
