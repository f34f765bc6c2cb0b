package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/hotel-frontdesk/internal/access"
	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/hotelapi"
	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/internal/pricing"
)

// ReceptionHandler serves the front desk booking list.
type ReceptionHandler struct {
	API HotelAPI
}

func NewReceptionHandler(api HotelAPI) *ReceptionHandler {
	return &ReceptionHandler{API: api}
}

func (h *ReceptionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/bookings", h.list)
	r.Get("/bookings/{id}", h.get)
	return r
}

// list accepts ?from=&to= (check-in range, inclusive), ?status= and ?search=.
func (h *ReceptionHandler) list(w http.ResponseWriter, r *http.Request) {
	session, ok := access.SessionFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "login required")
		return
	}

	from, ok := dateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := dateParam(w, r, "to")
	if !ok {
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		writeError(w, r, domain.Invalid("to", domain.ErrInvalidDateRange), "reception_bookings")
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" {
		if _, ok := domain.ParseBookingStatus(status); !ok {
			writeError(w, r, domain.Invalid("status", domain.ErrInvalidStatus), "reception_bookings")
			return
		}
	}

	items, err := h.API.ListBookings(r.Context(), session.Token, hotelapi.ListOptions{
		Status: status,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		writeError(w, r, err, "reception_bookings")
		return
	}

	items = pricing.FilterBookingsByCheckIn(items, from, to)
	response.WriteJSON(w, http.StatusOK, map[string]any{"data": items, "count": len(items)})
}

func (h *ReceptionHandler) get(w http.ResponseWriter, r *http.Request) {
	session, ok := access.SessionFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "login required")
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	b, err := h.API.Booking(r.Context(), session.Token, id)
	if err != nil {
		writeError(w, r, err, "reception_booking")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"data": b})
}
