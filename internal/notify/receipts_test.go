package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/hotel-frontdesk/pkg/events"
)

type mockMailer struct {
	mu      sync.Mutex
	delay   time.Duration
	sent    int
	lastTo  string
	lastTxt string
}

func (m *mockMailer) Send(_ context.Context, to, _, _, text, _ string) (string, error) {
	time.Sleep(m.delay)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent++
	m.lastTo = to
	m.lastTxt = text
	return "m-1", nil
}

func TestReceipts_SendsOnBookingSubmitted(t *testing.T) {
	bus := events.NewLocalBus()
	m := &mockMailer{}
	require.NoError(t, NewReceipts(m).Subscribe(bus))

	err := bus.Publish(context.Background(), events.BookingSubmitted, events.BookingSubmittedEvent{
		BookingID:   5,
		GuestName:   "Dewi",
		Email:       "dewi@example.com",
		RoomType:    "Suite",
		RoomCount:   1,
		CheckIn:     "2024-05-01",
		CheckOut:    "2024-05-03",
		Nights:      2,
		TotalPrice:  3000000,
		SubmittedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	assert.Equal(t, 1, m.sent)
	assert.Equal(t, "dewi@example.com", m.lastTo)
	assert.Contains(t, m.lastTxt, "Check-out: 2024-05-03")
}

func TestReceipts_SkipsBadEvents(t *testing.T) {
	m := &mockMailer{}
	r := NewReceipts(m)

	r.Handle(&events.Message{Subject: events.BookingSubmitted, Data: []byte("{")})
	r.Handle(&events.Message{Subject: events.BookingSubmitted, Data: []byte(`{"booking_id":1}`)})

	assert.Zero(t, m.sent)
}

func TestReceipts_SlowMailerDoesNotBlockPublish(t *testing.T) {
	bus := events.NewLocalBus()
	m := &mockMailer{delay: 500 * time.Millisecond}
	require.NoError(t, NewReceipts(m).Subscribe(bus))

	start := time.Now()
	err := bus.Publish(context.Background(), events.BookingSubmitted, events.BookingSubmittedEvent{
		BookingID: 6,
		Email:     "budi@example.com",
		RoomType:  "Deluxe",
		RoomCount: 1,
		CheckIn:   "2024-05-01",
		CheckOut:  "2024-05-02",
		Nights:    1,
	})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 250*time.Millisecond)

	require.NoError(t, bus.Close())
	assert.Equal(t, 1, m.sent)
}
