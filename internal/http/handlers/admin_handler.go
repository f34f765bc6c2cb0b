package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/diagnosis/hotel-frontdesk/internal/access"
	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/hotelapi"
	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

// Forwarder relays a request to another origin and reports the status it
// got back, or 0 if it already wrote an error.
type Forwarder interface {
	Forward(w http.ResponseWriter, r *http.Request, path string) int
}

// AdminHandler serves dashboard stats and relays catalog management calls to
// the hotel API.
type AdminHandler struct {
	API   HotelAPI
	Hotel Forwarder
	Now   func() time.Time
}

func NewAdminHandler(api HotelAPI, hotel Forwarder) *AdminHandler {
	return &AdminHandler{API: api, Hotel: hotel, Now: time.Now}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.stats)
	r.Handle("/hotel/*", http.HandlerFunc(h.passthrough))
	return r
}

type statsResponse struct {
	TotalBookings  int            `json:"total_bookings"`
	ByStatus       map[string]int `json:"by_status"`
	RoomTypes      int            `json:"room_types"`
	AvailableRooms int            `json:"available_rooms"`
	Date           domain.Date    `json:"date"`
}

// stats counts bookings and tonight's free rooms.
func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	session, ok := access.SessionFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "login required")
		return
	}

	today := domain.DateOf(h.Now())
	var (
		bookings  []domain.Booking
		roomTypes []domain.RoomType
		free      []domain.Room
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		bookings, err = h.API.ListBookings(ctx, session.Token, hotelapi.ListOptions{})
		return err
	})
	g.Go(func() error {
		var err error
		roomTypes, err = h.API.RoomTypes(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		free, err = h.API.FreeRooms(ctx, domain.AvailabilityQuery{CheckIn: today, CheckOut: today.AddDays(1)})
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err, "admin_stats")
		return
	}

	byStatus := make(map[string]int)
	for _, b := range bookings {
		byStatus[string(b.Status)]++
	}

	response.WriteJSON(w, http.StatusOK, statsResponse{
		TotalBookings:  len(bookings),
		ByStatus:       byStatus,
		RoomTypes:      len(roomTypes),
		AvailableRooms: len(free),
		Date:           today,
	})
}

// passthrough relays /api/admin/hotel/<path> to <path> on the hotel API with
// the session token attached. Successful writes to room types drop the
// cached catalog.
func (h *AdminHandler) passthrough(w http.ResponseWriter, r *http.Request) {
	session, ok := access.SessionFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "login required")
		return
	}

	path := "/" + strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	r.Header.Set("Authorization", "Bearer "+session.Token)
	r.Header.Del("Cookie")

	status := h.Hotel.Forward(w, r, path)
	if status >= 200 && status < 300 && r.Method != http.MethodGet && strings.HasPrefix(path, "/room-type") {
		logger.InfoContext(r.Context(), "Room types changed, invalidating catalog", "method", r.Method, "path", path)
		h.API.InvalidateCatalog(r.Context())
	}
}
