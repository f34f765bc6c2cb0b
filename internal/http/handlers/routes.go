package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/diagnosis/hotel-frontdesk/internal/access"
	ratelimit "github.com/diagnosis/hotel-frontdesk/internal/http/middleware"
	"github.com/diagnosis/hotel-frontdesk/pkg/events"
	mw "github.com/diagnosis/hotel-frontdesk/pkg/middleware"
)

// Deps is everything the router needs. Limiter, Pages and Hotel may be nil.
type Deps struct {
	ServiceName    string
	API            HotelAPI
	Gate           *access.Gate
	Bus            events.Publisher
	Idempotency    mw.IdempotencyStore
	IdempotencyTTL time.Duration
	Limiter        ratelimit.Limiter
	LoginRequests  int
	LoginWindow    time.Duration
	Cookies        CookieConfig
	AllowedOrigins []string
	TrustProxy     bool      // read client IPs from forwarding headers
	Hotel          Forwarder // admin passthrough to the hotel API
	Pages          Forwarder // page front end
}

// NewRouter wires the gate in front of every route. The gate only acts on
// the gated page and API prefixes; everything else passes through.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	if d.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName(d.ServiceName))
	r.Use(mw.Logging)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)
	r.Use(d.Gate.Middleware(d.Bus))

	throttle := ratelimit.NewRateLimiter(d.Limiter, ratelimit.RateLimitConfig{
		Requests: d.LoginRequests,
		Window:   d.LoginWindow,
		KeyFunc:  ratelimit.LoginKeyFunc,
	}, d.Bus).Middleware()

	idempotent := func(next http.Handler) http.Handler { return next }
	if d.Idempotency != nil {
		idempotent = mw.Idempotency(d.Idempotency, d.IdempotencyTTL)
	}

	sessions := NewSessionHandler(d.API, d.Bus, d.Cookies)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", sessions.Routes(throttle))
		NewCatalogHandler(d.API).Register(r)
		r.Mount("/pelanggan", NewCustomerBookingsHandler(d.API, d.Bus).Routes(idempotent))
		r.Mount("/resepsionis", NewReceptionHandler(d.API).Routes())
		r.Mount("/admin", NewAdminHandler(d.API, d.Hotel).Routes())
	})

	r.Get("/auth/logout", sessions.Logout)
	r.Handle("/*", pageHandler(d.Pages))

	return r
}
