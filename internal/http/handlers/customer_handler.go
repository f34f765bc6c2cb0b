package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/hotel-frontdesk/internal/access"
	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/hotelapi"
	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/internal/pricing"
	"github.com/diagnosis/hotel-frontdesk/pkg/events"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

// CustomerBookingsHandler serves /api/pelanggan. The gate has already
// checked the role, so every request carries a session.
type CustomerBookingsHandler struct {
	API HotelAPI
	Bus events.Publisher
}

func NewCustomerBookingsHandler(api HotelAPI, bus events.Publisher) *CustomerBookingsHandler {
	return &CustomerBookingsHandler{API: api, Bus: bus}
}

// Routes mounts the handlers. idempotent wraps the create endpoint.
func (h *CustomerBookingsHandler) Routes(idempotent func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(idempotent).Post("/bookings", h.create)
	r.Get("/bookings", h.list)
	r.Get("/bookings/{id}", h.get)
	return r
}

type createBookingResponse struct {
	ID         int64  `json:"id"`
	TotalPrice int64  `json:"total_harga"`
	Nights     int    `json:"malam"`
	Status     string `json:"status_pemesanan"`
}

func (h *CustomerBookingsHandler) create(w http.ResponseWriter, r *http.Request) {
	session, ok := access.SessionFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "login required")
		return
	}

	var in domain.BookingRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	in.Normalize()
	if in.Email == "" {
		in.Email = session.Email
	}
	if err := in.Validate(); err != nil {
		writeError(w, r, err, "create_booking")
		return
	}

	all, err := h.API.RoomTypes(r.Context())
	if err != nil {
		writeError(w, r, err, "create_booking")
		return
	}
	rt, found := pricing.FindRoomType(all, in.RoomTypeID)
	if !found {
		response.NotFound(w, "room type not found")
		return
	}
	quote, err := pricing.NewQuote(rt, in.CheckIn, in.CheckOut, in.RoomCount)
	if err != nil {
		writeError(w, r, err, "create_booking")
		return
	}

	id, err := h.API.CreateBooking(r.Context(), session.Token, in)
	if err != nil {
		writeError(w, r, err, "create_booking")
		return
	}

	logger.InfoContext(r.Context(), "Booking submitted",
		"booking_id", id,
		"room_type_id", rt.ID,
		"nights", quote.Nights,
		"total_price", quote.Total,
	)

	if h.Bus != nil {
		ev := events.BookingSubmittedEvent{
			BookingID:   id,
			CustomerID:  session.UserID,
			GuestName:   in.GuestName,
			Email:       in.Email,
			RoomTypeID:  rt.ID,
			RoomType:    rt.Name,
			RoomCount:   in.RoomCount,
			CheckIn:     in.CheckIn.String(),
			CheckOut:    in.CheckOut.String(),
			Nights:      quote.Nights,
			TotalPrice:  quote.Total,
			SubmittedAt: time.Now().UTC(),
		}
		if err := h.Bus.Publish(r.Context(), events.BookingSubmitted, ev); err != nil {
			logger.WarnContext(r.Context(), "Failed to publish booking event", "error", err, "booking_id", id)
		}
	}

	response.WriteJSON(w, http.StatusCreated, createBookingResponse{
		ID:         id,
		TotalPrice: quote.Total,
		Nights:     quote.Nights,
		Status:     string(in.Status),
	})
}

func (h *CustomerBookingsHandler) list(w http.ResponseWriter, r *http.Request) {
	session, ok := access.SessionFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "login required")
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" {
		if _, ok := domain.ParseBookingStatus(status); !ok {
			writeError(w, r, domain.Invalid("status", domain.ErrInvalidStatus), "list_bookings")
			return
		}
	}

	items, err := h.API.ListBookings(r.Context(), session.Token, hotelapi.ListOptions{Status: status})
	if err != nil {
		writeError(w, r, err, "list_bookings")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (h *CustomerBookingsHandler) get(w http.ResponseWriter, r *http.Request) {
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
		writeError(w, r, err, "get_booking")
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"data": b})
}
