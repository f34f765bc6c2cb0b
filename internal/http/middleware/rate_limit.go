package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/internal/utils"
	"github.com/diagnosis/hotel-frontdesk/pkg/events"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

// Limiter counts one hit for key and says whether it is still allowed.
// *postgres.RateLimitRepo implements it.
type Limiter interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int                            // Max requests per window
	Window   time.Duration                  // Time window duration
	KeyFunc  func(r *http.Request) []string // Function to generate rate limit keys
	SkipFunc func(r *http.Request) bool     // Function to skip rate limiting
}

type RateLimiter struct {
	limiter Limiter
	config  RateLimitConfig
	bus     events.Publisher
}

// NewRateLimiter returns a limiter. bus may be nil.
func NewRateLimiter(limiter Limiter, config RateLimitConfig, bus events.Publisher) *RateLimiter {
	return &RateLimiter{limiter: limiter, config: config, bus: bus}
}

// Middleware rejects with 429 once any key exceeds the window budget.
// Storage errors fail open.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.limiter == nil || (rl.config.SkipFunc != nil && rl.config.SkipFunc(r)) {
				next.ServeHTTP(w, r)
				return
			}

			for _, key := range rl.config.KeyFunc(r) {
				ok, err := rl.limiter.Hit(r.Context(), key, rl.config.Requests, rl.config.Window)
				if err != nil {
					logger.WarnContext(r.Context(), "Rate limit check failed, allowing request", "error", err)
					continue
				}
				if !ok {
					rl.throttled(r, key)
					w.Header().Set("Retry-After", retryAfter(rl.config.Window))
					response.RateLimit(w, "Too many requests. Try again later.")
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) throttled(r *http.Request, key string) {
	kind := key
	if i := strings.Index(key, ":"); i > 0 {
		kind = key[:i]
	}
	logger.WarnContext(r.Context(), "Rate limit exceeded", "path", r.URL.Path, "key_kind", kind)
	if rl.bus == nil {
		return
	}
	ev := events.LoginEvent{RemoteIP: ClientIP(r), At: time.Now().UTC()}
	if err := rl.bus.Publish(r.Context(), events.LoginThrottled, ev); err != nil {
		logger.WarnContext(r.Context(), "Failed to publish throttle event", "error", err)
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// LoginKeyFunc limits by client IP and by the email in the JSON body. The
// body is restored for the next handler.
func LoginKeyFunc(r *http.Request) []string {
	keys := []string{}

	if ip := ClientIP(r); ip != "" {
		keys = append(keys, "ip:"+ip)
	}

	if r.Body == nil {
		return keys
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return keys
	}

	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if email := utils.NormalizeEmail(body.Email); email != "" {
			keys = append(keys, "email:"+email)
		}
	}
	return keys
}

// ClientIP is the host part of RemoteAddr. Forwarding headers are never read
// here; behind a trusted proxy the router runs chi's RealIP first, which
// rewrites RemoteAddr.
func ClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
