package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/hotel-frontdesk/internal/access"
	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/hotelapi"
	"github.com/diagnosis/hotel-frontdesk/internal/http/middleware"
	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/internal/utils"
	"github.com/diagnosis/hotel-frontdesk/pkg/events"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

// CookieConfig controls the session cookies set after login.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
	Domain string
}

// SessionHandler logs users in against the hotel API and manages the
// session cookies the gate reads.
type SessionHandler struct {
	API     HotelAPI
	Bus     events.Publisher
	Cookies CookieConfig
}

func NewSessionHandler(api HotelAPI, bus events.Publisher, cookies CookieConfig) *SessionHandler {
	return &SessionHandler{API: api, Bus: bus, Cookies: cookies}
}

// Routes mounts the login endpoints behind throttle.
func (h *SessionHandler) Routes(throttle func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(throttle).Post("/login", h.login(hotelapi.StaffLogin))
	r.With(throttle).Post("/login-as-guest", h.login(hotelapi.CustomerLogin))
	r.Post("/logout", h.logoutAPI)
	return r
}

type loginResponse struct {
	Token    string      `json:"token"`
	Role     domain.Role `json:"role"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Redirect string      `json:"redirect"`
}

func (h *SessionHandler) login(kind hotelapi.LoginKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		if !decodeJSON(w, r, &creds) {
			return
		}
		creds.Email = utils.NormalizeEmail(creds.Email)
		if err := creds.Validate(); err != nil {
			writeError(w, r, err, "login")
			return
		}

		res, err := h.API.Login(r.Context(), kind, creds)
		if err != nil {
			var le *hotelapi.LoginError
			if errors.As(err, &le) {
				logger.InfoContext(r.Context(), "Login rejected", "email", creds.Email)
				msg := le.Message
				if msg == "" {
					msg = "invalid email or password"
				}
				response.WriteError(w, http.StatusUnauthorized, msg, response.CodeLoginFailed)
				return
			}
			writeError(w, r, err, "login")
			return
		}

		h.setSessionCookies(w, res)
		logger.InfoContext(r.Context(), "Login succeeded", "email", res.Email, "role", res.Role)

		if h.Bus != nil {
			ev := events.LoginEvent{
				Email:    res.Email,
				Role:     string(res.Role),
				RemoteIP: middleware.ClientIP(r),
				At:       time.Now().UTC(),
			}
			if err := h.Bus.Publish(r.Context(), events.LoginSucceeded, ev); err != nil {
				logger.WarnContext(r.Context(), "Failed to publish login event", "error", err)
			}
		}

		response.WriteJSON(w, http.StatusOK, loginResponse{
			Token:    res.Token,
			Role:     res.Role,
			Name:     res.Name,
			Email:    res.Email,
			Redirect: res.Role.Dashboard(),
		})
	}
}

func (h *SessionHandler) setSessionCookies(w http.ResponseWriter, res *hotelapi.LoginResult) {
	maxAge := int(h.Cookies.TTL.Seconds())
	set := func(name, value string, httpOnly bool) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			Domain:   h.Cookies.Domain,
			MaxAge:   maxAge,
			Secure:   h.Cookies.Secure,
			HttpOnly: httpOnly,
			SameSite: http.SameSiteLaxMode,
		})
	}
	set(access.TokenCookie, res.Token, true)
	set(access.NameCookie, res.Name, false)
	set(access.UsernameCookie, res.Email, false)
}

func (h *SessionHandler) logoutAPI(w http.ResponseWriter, r *http.Request) {
	access.ClearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// Logout clears the session and sends the browser to the login page.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	access.ClearSessionCookies(w)
	http.Redirect(w, r, access.LoginPath, http.StatusSeeOther)
}
