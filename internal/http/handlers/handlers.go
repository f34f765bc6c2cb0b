package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/hotelapi"
	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

// HotelAPI is the subset of *hotelapi.Client the handlers use.
type HotelAPI interface {
	RoomTypes(ctx context.Context) ([]domain.RoomType, error)
	FreeRooms(ctx context.Context, q domain.AvailabilityQuery) ([]domain.Room, error)
	CreateBooking(ctx context.Context, token string, req domain.BookingRequest) (int64, error)
	Booking(ctx context.Context, token string, id int64) (*domain.BookingConfirmation, error)
	ListBookings(ctx context.Context, token string, opts hotelapi.ListOptions) ([]domain.Booking, error)
	Login(ctx context.Context, kind hotelapi.LoginKind, creds domain.Credentials) (*hotelapi.LoginResult, error)
	InvalidateCatalog(ctx context.Context)
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object and rejects unknown trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			response.BadRequest(w, "Request body is empty")
			return false
		}
		response.WriteErrorWithDetails(w, http.StatusBadRequest, "Invalid JSON body", response.CodeInvalidInput, err.Error())
		return false
	}
	if dec.More() {
		response.BadRequest(w, "Request body must contain a single JSON object")
		return false
	}
	return true
}

// writeError maps validation and upstream errors onto the JSON envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		response.WriteErrorWithDetails(w, http.StatusBadRequest, ve.Err.Error(), response.CodeInvalidInput, ve.Field)
		return
	}

	var ue *hotelapi.UpstreamError
	if errors.As(err, &ue) {
		switch ue.Status {
		case http.StatusNotFound:
			response.NotFound(w, nonEmpty(ue.Message, "Not found"))
			return
		case http.StatusUnauthorized:
			response.Unauthorized(w, nonEmpty(ue.Message, "Not authorized by hotel API"))
			return
		case http.StatusForbidden:
			response.Forbidden(w, nonEmpty(ue.Message, "Forbidden by hotel API"))
			return
		case http.StatusUnprocessableEntity, http.StatusBadRequest, http.StatusConflict:
			response.WriteError(w, ue.Status, nonEmpty(ue.Message, "Request rejected"), response.CodeInvalidInput)
			return
		}
		logger.ErrorContext(r.Context(), "Hotel API error", "action", action, "status", ue.Status, "error", err)
		response.BadGateway(w, "Hotel API error", ue.Message)
		return
	}

	if errors.Is(err, context.Canceled) {
		return
	}
	logger.ErrorContext(r.Context(), "Hotel API unreachable", "action", action, "error", err)
	response.BadGateway(w, "Hotel API unavailable", "")
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

// dateParam parses an optional yyyy-mm-dd query parameter.
func dateParam(w http.ResponseWriter, r *http.Request, name string) (domain.Date, bool) {
	d, err := domain.ParseDate(r.URL.Query().Get(name))
	if err != nil {
		response.WriteErrorWithDetails(w, http.StatusBadRequest, err.Error(), response.CodeInvalidInput, name)
		return domain.Date{}, false
	}
	return d, true
}
