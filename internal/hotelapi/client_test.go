package hotelapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/pkg/cache"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestRoomTypes_Cached(t *testing.T) {
	calls := 0
	r := chi.NewRouter()
	r.Get("/room-type", func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, map[string]any{"data": []map[string]any{
			{"id_tipe_kamar": 1, "nama_tipe_kamar": "Standard", "harga": 400000},
		}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := New(srv.URL, time.Second, WithCache(newMemCache(), time.Minute))
	ctx := context.Background()

	rts, err := c.RoomTypes(ctx)
	require.NoError(t, err)
	require.Len(t, rts, 1)
	assert.Equal(t, "Standard", rts[0].Name)
	assert.Equal(t, int64(400000), rts[0].Price)

	_, err = c.RoomTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	c.InvalidateCatalog(ctx)
	_, err = c.RoomTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFreeRooms_SendsNullsAndFlattens(t *testing.T) {
	var got map[string]any
	r := chi.NewRouter()
	r.Post("/filter", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{"kamar": []map[string]any{
			{"id_tipe_kamar": 2, "nama_tipe_kamar": "Deluxe", "kamar": []map[string]any{
				{"id_kamar": 10, "nomor_kamar": "201"},
				{"id_kamar": 11, "nomor_kamar": "202"},
			}},
			{"id_tipe_kamar": 3, "kamar": []map[string]any{}},
		}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	rooms, err := c.FreeRooms(context.Background(), domain.AvailabilityQuery{
		CheckIn:  domain.NewDate(2025, time.March, 1),
		CheckOut: domain.NewDate(2025, time.March, 2),
	})
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, int64(2), rooms[0].RoomTypeID)

	assert.Equal(t, "2025-03-01", got["tgl_check_in"])
	assert.Equal(t, "2025-03-02", got["tgl_check_out"])
	v, present := got["id_tipe_kamar"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestCreateBooking_ForwardsTokenAndRequestID(t *testing.T) {
	var authHeader, requestID string
	r := chi.NewRouter()
	r.Post("/booking", func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": 55}})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-1")
	id, err := New(srv.URL, time.Second).CreateBooking(ctx, "tok", domain.BookingRequest{GuestName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, int64(55), id)
	assert.Equal(t, "Bearer tok", authHeader)
	assert.Equal(t, "req-1", requestID)
}

func TestCreateBooking_Unsuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "kamar penuh"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).CreateBooking(context.Background(), "tok", domain.BookingRequest{})
	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusUnprocessableEntity, ue.Status)
	assert.Equal(t, "kamar penuh", ue.Message)
}

func TestBooking_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Pemesanan tidak ditemukan"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Booking(context.Background(), "tok", 9)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "Pemesanan tidak ditemukan")
}

func TestListBookings_EncodesOptions(t *testing.T) {
	var rawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{"data": nil})
	}))
	defer srv.Close()

	items, err := New(srv.URL, time.Second).ListBookings(context.Background(), "tok", ListOptions{Status: "pending", Limit: 20})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, "limit=20&status=pending", rawQuery)
}

func TestLogin(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/customer/login", func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "right" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Password salah"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   "jwt",
			"data":    map[string]any{"role": "pelanggan", "nama": "Ana"},
		})
	})
	r.Post("/user/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   "jwt",
			"data":    map[string]any{"role": "superuser"},
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	c := New(srv.URL, time.Second)
	ctx := context.Background()

	res, err := c.Login(ctx, CustomerLogin, domain.Credentials{Email: "ana@example.com", Password: "right"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, res.Role)
	assert.Equal(t, "ana@example.com", res.Email)
	assert.Equal(t, "jwt", res.Token)

	_, err = c.Login(ctx, CustomerLogin, domain.Credentials{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrLoginRejected)
	assert.Contains(t, err.Error(), "Password salah")

	_, err = c.Login(ctx, StaffLogin, domain.Credentials{Email: "x@example.com", Password: "p"})
	assert.ErrorIs(t, err, ErrLoginRejected)
}

func TestForwarder(t *testing.T) {
	var gotPath, gotQuery, gotHost string
	var gotBody []byte
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotHost = r.Header.Get("X-Forwarded-Host")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("X-Upstream", "yes")
		w.Header().Set("Connection", "close")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("ok"))
	}))
	defer upstream.Close()

	f := NewForwarder(upstream.URL, "hotel", time.Second)
	req := httptest.NewRequest(http.MethodPost, "http://gateway.local/api/admin/hotel/room-type?x=1", strings.NewReader("body"))
	rec := httptest.NewRecorder()

	status := f.Forward(rec, req, "/room-type")
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "yes", rec.Header().Get("X-Upstream"))
	assert.Empty(t, rec.Header().Get("Connection"))
	assert.Equal(t, "/room-type", gotPath)
	assert.Equal(t, "x=1", gotQuery)
	assert.Equal(t, "gateway.local", gotHost)
	assert.Equal(t, "body", string(gotBody))
}

func TestForwarder_Unreachable(t *testing.T) {
	f := NewForwarder("http://127.0.0.1:1", "hotel", 200*time.Millisecond)
	rec := httptest.NewRecorder()
	status := f.Forward(rec, httptest.NewRequest(http.MethodGet, "/x", nil), "/x")
	assert.Equal(t, 0, status)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestForwarder_UnreachableFromAPI(t *testing.T) {
	f := NewForwarder("http://127.0.0.1:1", "hotel-api", 200*time.Millisecond)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/hotel/room-type", strings.NewReader("{}"))

	status := f.Forward(rec, req, "/room-type")
	assert.Equal(t, 0, status)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, response.CodeUpstreamError, body.Code)
	assert.Equal(t, "hotel-api", body.Details)
}
