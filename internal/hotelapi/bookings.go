package hotelapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-querystring/query"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
)

type createBookingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		ID int64 `json:"id"`
	} `json:"data"`
}

// CreateBooking submits a validated request on behalf of the session owner
// and returns the new booking id.
func (c *Client) CreateBooking(ctx context.Context, token string, req domain.BookingRequest) (int64, error) {
	var env createBookingResponse
	if err := c.do(ctx, http.MethodPost, "/booking", token, req, &env); err != nil {
		return 0, err
	}
	if !env.Success || env.Data.ID == 0 {
		msg := env.Message
		if msg == "" {
			msg = "booking rejected"
		}
		return 0, &UpstreamError{Status: http.StatusUnprocessableEntity, Message: msg}
	}
	return env.Data.ID, nil
}

// Booking fetches the confirmation used for the receipt.
func (c *Client) Booking(ctx context.Context, token string, id int64) (*domain.BookingConfirmation, error) {
	var env struct {
		Data *domain.BookingConfirmation `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/booking/%d", id), token, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, &UpstreamError{Status: http.StatusNotFound, Message: "booking not found"}
	}
	if env.Data.ID == 0 {
		env.Data.ID = id
	}
	return env.Data, nil
}

// ListOptions narrows the upstream booking list.
type ListOptions struct {
	Status string `url:"status,omitempty"`
	Search string `url:"search,omitempty"`
	Page   int    `url:"page,omitempty"`
	Limit  int    `url:"limit,omitempty"`
}

// ListBookings returns bookings visible to token's owner. Customers see
// their own; staff see everything.
func (c *Client) ListBookings(ctx context.Context, token string, opts ListOptions) ([]domain.Booking, error) {
	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("encode list options: %w", err)
	}
	path := "/booking"
	if encoded := v.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var env struct {
		Data []domain.Booking `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, token, nil, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		env.Data = []domain.Booking{}
	}
	return env.Data, nil
}
