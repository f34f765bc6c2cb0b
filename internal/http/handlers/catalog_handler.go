package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/internal/pricing"
	"github.com/diagnosis/hotel-frontdesk/internal/utils"
)

// CatalogHandler serves the public room-type, availability and quote
// endpoints.
type CatalogHandler struct {
	API HotelAPI
}

func NewCatalogHandler(api HotelAPI) *CatalogHandler {
	return &CatalogHandler{API: api}
}

// Register adds the public routes directly to r, which is shared with the
// role-scoped mounts under /api.
func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/room-types", h.roomTypes)
	r.Post("/rooms/availability", h.availability)
	r.Post("/quote", h.quote)
}

type roomTypeView struct {
	domain.RoomType
	Band      pricing.PriceBand `json:"price_band"`
	FreeRooms *int              `json:"kamar_tersedia,omitempty"`
}

func viewsOf(rts []domain.RoomType, free map[int64]int) []roomTypeView {
	out := make([]roomTypeView, 0, len(rts))
	for _, rt := range rts {
		v := roomTypeView{RoomType: rt, Band: pricing.PriceBandOf(rt.Price)}
		if free != nil {
			n := free[rt.ID]
			v.FreeRooms = &n
		}
		out = append(out, v)
	}
	return out
}

func (h *CatalogHandler) roomTypes(w http.ResponseWriter, r *http.Request) {
	band, err := pricing.ParsePriceBand(r.URL.Query().Get("band"))
	if err != nil {
		writeError(w, r, err, "room_types")
		return
	}

	all, err := h.API.RoomTypes(r.Context())
	if err != nil {
		writeError(w, r, err, "room_types")
		return
	}

	search := utils.NormalizeString(r.URL.Query().Get("search"))
	matched := make([]domain.RoomType, 0, len(all))
	for _, rt := range pricing.FilterByBand(all, band) {
		if utils.ContainsFold(rt.Name, search) {
			matched = append(matched, rt)
		}
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{"data": viewsOf(matched, nil)})
}

func (h *CatalogHandler) availability(w http.ResponseWriter, r *http.Request) {
	var q domain.AvailabilityQuery
	if !decodeJSON(w, r, &q) {
		return
	}
	if err := q.Validate(); err != nil {
		writeError(w, r, err, "availability")
		return
	}

	var (
		all  []domain.RoomType
		free []domain.Room
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		all, err = h.API.RoomTypes(ctx)
		return err
	})
	if q.HasDates() {
		g.Go(func() error {
			var err error
			free, err = h.API.FreeRooms(ctx, q)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		writeError(w, r, err, "availability")
		return
	}

	matched, err := pricing.FilterAvailableRoomTypes(all, free, q)
	if err != nil {
		writeError(w, r, err, "availability")
		return
	}

	var counts map[int64]int
	if q.HasDates() {
		counts = pricing.CountFreeRooms(free)
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"data": viewsOf(matched, counts)})
}

func (h *CatalogHandler) quote(w http.ResponseWriter, r *http.Request) {
	var in domain.QuoteRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.RoomTypeID <= 0 {
		writeError(w, r, domain.Invalid("id_tipe_kamar", domain.ErrInvalidRoomType), "quote")
		return
	}

	all, err := h.API.RoomTypes(r.Context())
	if err != nil {
		writeError(w, r, err, "quote")
		return
	}
	rt, ok := pricing.FindRoomType(all, in.RoomTypeID)
	if !ok {
		response.NotFound(w, "room type not found")
		return
	}

	q, err := pricing.NewQuote(rt, in.CheckIn, in.CheckOut, in.RoomCount)
	if err != nil {
		writeError(w, r, err, "quote")
		return
	}
	response.WriteJSON(w, http.StatusOK, q)
}
