package mailer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
)

type captureMailer struct {
	to, name, subject, text, html string
}

func (c *captureMailer) Send(_ context.Context, to, name, subject, text, html string) (string, error) {
	c.to, c.name, c.subject, c.text, c.html = to, name, subject, text, html
	return "id-1", nil
}

func TestFormatRupiah(t *testing.T) {
	got := FormatRupiah(1500000)
	assert.True(t, strings.HasPrefix(got, "Rp. "))
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, got)
	assert.Equal(t, "1500000", digits)
}

func TestSendReceipt(t *testing.T) {
	m := &captureMailer{}
	r := Receipt{
		BookingID: 12,
		GuestName: "Sari <b>",
		Email:     "sari@example.com",
		RoomType:  "Deluxe",
		RoomCount: 2,
		CheckIn:   domain.NewDate(2024, time.January, 1),
		CheckOut:  domain.NewDate(2024, time.January, 4),
		Nights:    3,
		Total:     4500000,
	}

	id, err := SendReceipt(context.Background(), m, r)
	require.NoError(t, err)
	assert.Equal(t, "id-1", id)
	assert.Equal(t, "sari@example.com", m.to)
	assert.Equal(t, "Booking #12 received", m.subject)
	assert.Contains(t, m.text, "Check-in: 2024-01-01")
	assert.Contains(t, m.text, "Nights: 3")
	assert.Contains(t, m.html, "2024-01-04")
	assert.NotContains(t, m.html, "<b>", "guest name is escaped")
}

func TestDevMailer(t *testing.T) {
	id, err := NewDevMailer().Send(context.Background(), "a@b.co", "", "s", "t", "")
	require.NoError(t, err)
	assert.Equal(t, "dev", id)
}

func TestMailer_DisabledWithoutKey(t *testing.T) {
	_, err := NewMailer("", "Hotel", "noreply@hotel.test").Send(context.Background(), "a@b.co", "", "s", "t", "")
	assert.Error(t, err)
}
