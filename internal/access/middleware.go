package access

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/pkg/events"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

// Session cookie names shared with the page front end.
const (
	TokenCookie    = "token"
	NameCookie     = "name"
	UsernameCookie = "username"
)

var sessionCookies = []string{TokenCookie, NameCookie, UsernameCookie}

// TokenFrom prefers an Authorization bearer header and falls back to the
// token cookie.
func TokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// ClearSessionCookies expires every session cookie on the client.
func ClearSessionCookies(w http.ResponseWriter) {
	for _, name := range sessionCookies {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: name == TokenCookie,
		})
	}
}

// Middleware runs Decide ahead of any gated handler. Page requests are
// answered with 303 redirects; /api requests get JSON errors instead.
// bus may be nil.
func (g *Gate) Middleware(bus events.Publisher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if clean := CleanPath(path); clean != path {
				redirectToClean(w, r, clean)
				return
			}
			if !IsGated(path) {
				next.ServeHTTP(w, r)
				return
			}

			d := g.Decide(TokenFrom(r), path)
			ctx := r.Context()
			if d.Session != nil {
				ctx = context.WithValue(ctx, logger.UserIDKey, d.Session.Principal())
				ctx = context.WithValue(ctx, logger.RoleKey, string(d.Session.Role))
			}

			if d.Outcome == Proceed {
				if d.Session != nil {
					ctx = WithSession(ctx, d.Session)
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			logDecision(ctx, r, d)
			if bus != nil {
				publishDenied(ctx, bus, r, d)
			}

			if d.Outcome == ClearSessionAndRedirectToLogin {
				ClearSessionCookies(w)
			}

			if IsAPIPath(path) {
				writeAPIDenial(w, d)
				return
			}
			http.Redirect(w, r, d.Location, http.StatusSeeOther)
		})
	}
}

// redirectToClean sends non-canonical paths to their cleaned form with a 308
// so the method and body survive. Nothing downstream sees the raw path.
func redirectToClean(w http.ResponseWriter, r *http.Request, clean string) {
	logger.InfoContext(r.Context(), "Redirecting to canonical path", "path", r.URL.Path, "location", clean)
	target := clean
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusPermanentRedirect)
}

func logDecision(ctx context.Context, r *http.Request, d Decision) {
	args := []any{
		"path", r.URL.Path,
		"outcome", d.Outcome.String(),
		"reason", string(d.Reason),
		"location", d.Location,
	}
	switch d.Reason {
	case ReasonTokenExpired, ReasonTokenInvalid, ReasonRoleUnknown, ReasonRoleForbidden:
		logger.WarnContext(ctx, "Access denied", args...)
	default:
		logger.InfoContext(ctx, "Access redirected", args...)
	}
}

func publishDenied(ctx context.Context, bus events.Publisher, r *http.Request, d Decision) {
	ev := events.AccessDeniedEvent{
		Path:     r.URL.Path,
		Outcome:  d.Outcome.String(),
		Reason:   string(d.Reason),
		RemoteIP: r.RemoteAddr,
		At:       time.Now().UTC(),
	}
	if d.Session != nil {
		ev.Role = string(d.Session.Role)
	}
	if id, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		ev.RequestID = id
	}
	if err := bus.Publish(ctx, events.AccessDenied, ev); err != nil {
		logger.WarnContext(ctx, "Failed to publish access event", "error", err)
	}
}

func writeAPIDenial(w http.ResponseWriter, d Decision) {
	switch d.Reason {
	case ReasonNoToken:
		response.Unauthorized(w, "Authentication required")
	case ReasonTokenExpired:
		response.WriteError(w, http.StatusUnauthorized, "Session expired, please log in again", response.CodeExpiredToken)
	case ReasonTokenInvalid, ReasonRoleUnknown:
		response.WriteError(w, http.StatusUnauthorized, "Invalid session token", response.CodeInvalidToken)
	default:
		response.Forbidden(w, "Insufficient permissions")
	}
}
