package hotelapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/pkg/cache"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

const catalogKey = "hotel:room-types"

// RoomTypes returns the catalog, from cache when possible. Cache trouble is
// logged and never fails the call.
func (c *Client) RoomTypes(ctx context.Context) ([]domain.RoomType, error) {
	if cached, err := c.cache.Get(ctx, catalogKey); err == nil {
		var rts []domain.RoomType
		if err := json.Unmarshal([]byte(cached), &rts); err == nil {
			return rts, nil
		}
		logger.WarnContext(ctx, "Discarding unreadable catalog cache entry")
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.WarnContext(ctx, "Catalog cache read failed", "error", err)
	}

	var env struct {
		Data []domain.RoomType `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/room-type", "", nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []domain.RoomType{}
	}

	if payload, err := json.Marshal(env.Data); err == nil {
		if err := c.cache.Set(ctx, catalogKey, string(payload), c.catalogTTL); err != nil {
			logger.WarnContext(ctx, "Catalog cache write failed", "error", err)
		}
	}
	return env.Data, nil
}

// InvalidateCatalog drops the cached catalog after an admin edits room types.
func (c *Client) InvalidateCatalog(ctx context.Context) {
	if err := c.cache.Delete(ctx, catalogKey); err != nil {
		logger.WarnContext(ctx, "Catalog cache invalidation failed", "error", err)
	}
}

type filterRequest struct {
	RoomTypeID *int64  `json:"id_tipe_kamar"`
	CheckIn    *string `json:"tgl_check_in"`
	CheckOut   *string `json:"tgl_check_out"`
	Search     string  `json:"search,omitempty"`
}

type filterResponse struct {
	Kamar []struct {
		domain.RoomType
		Rooms []domain.Room `json:"kamar"`
	} `json:"kamar"`
}

// FreeRooms asks the hotel API which rooms are free for the query's dates
// and flattens the per-type groups. Absent dates are sent as null, which the
// API treats as "every room".
func (c *Client) FreeRooms(ctx context.Context, q domain.AvailabilityQuery) ([]domain.Room, error) {
	req := filterRequest{Search: q.Search}
	if q.RoomTypeID != 0 {
		id := q.RoomTypeID
		req.RoomTypeID = &id
	}
	if !q.CheckIn.IsZero() {
		s := q.CheckIn.String()
		req.CheckIn = &s
	}
	if !q.CheckOut.IsZero() {
		s := q.CheckOut.String()
		req.CheckOut = &s
	}

	var env filterResponse
	if err := c.do(ctx, http.MethodPost, "/filter", "", req, &env); err != nil {
		return nil, err
	}

	rooms := make([]domain.Room, 0)
	for _, group := range env.Kamar {
		for _, room := range group.Rooms {
			if room.RoomTypeID == 0 {
				room.RoomTypeID = group.ID
			}
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}
