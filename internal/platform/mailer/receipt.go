package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
)

var idr = message.NewPrinter(language.Indonesian)

// FormatRupiah renders an amount the way the receipt page does, e.g.
// "Rp. 1.500.000".
func FormatRupiah(amount int64) string {
	return idr.Sprintf("Rp. %d", amount)
}

// Receipt is the data rendered into a booking confirmation email.
type Receipt struct {
	BookingID int64
	GuestName string
	Email     string
	RoomType  string
	RoomCount int
	CheckIn   domain.Date
	CheckOut  domain.Date
	Nights    int
	Total     int64
}

var receiptHTML = template.Must(template.New("receipt").Parse(`
<h2>Booking received</h2>
<p>Hi {{.GuestName}},</p>
<p>We have your booking <strong>#{{.BookingID}}</strong>.</p>
<table>
  <tr><td>Room type</td><td>{{.RoomType}}</td></tr>
  <tr><td>Rooms</td><td>{{.RoomCount}}</td></tr>
  <tr><td>Check-in</td><td>{{.CheckIn}}</td></tr>
  <tr><td>Check-out</td><td>{{.CheckOut}}</td></tr>
  <tr><td>Nights</td><td>{{.Nights}}</td></tr>
  <tr><td>Total</td><td><strong>{{.TotalText}}</strong></td></tr>
</table>
<p>Your booking is pending until reception confirms it.</p>
`))

func (r Receipt) Subject() string {
	return fmt.Sprintf("Booking #%d received", r.BookingID)
}

func (r Receipt) Text() string {
	return fmt.Sprintf("Hi %s,\n\nWe have your booking #%d.\nRoom type: %s\nRooms: %d\nCheck-in: %s\nCheck-out: %s\nNights: %d\nTotal: %s\n\nYour booking is pending until reception confirms it.\n",
		r.GuestName, r.BookingID, r.RoomType, r.RoomCount, r.CheckIn, r.CheckOut, r.Nights, FormatRupiah(r.Total))
}

func (r Receipt) HTML() (string, error) {
	var buf bytes.Buffer
	data := struct {
		Receipt
		TotalText string
	}{r, FormatRupiah(r.Total)}
	if err := receiptHTML.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendReceipt renders r and hands it to svc.
func SendReceipt(ctx context.Context, svc Service, r Receipt) (string, error) {
	html, err := r.HTML()
	if err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return svc.Send(ctx, r.Email, r.GuestName, r.Subject(), r.Text(), html)
}
