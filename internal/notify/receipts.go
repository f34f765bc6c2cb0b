// Package notify turns booking events into customer emails.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/diagnosis/hotel-frontdesk/internal/domain"
	"github.com/diagnosis/hotel-frontdesk/internal/platform/mailer"
	"github.com/diagnosis/hotel-frontdesk/pkg/events"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

// ReceiptQueue is the queue group receipt workers join so each booking is
// mailed once across replicas.
const ReceiptQueue = "receipts"

type Receipts struct {
	mailer  mailer.Service
	timeout time.Duration
}

func NewReceipts(m mailer.Service) *Receipts {
	return &Receipts{mailer: m, timeout: 15 * time.Second}
}

// Subscribe registers the worker on bus.
func (r *Receipts) Subscribe(bus events.Subscriber) error {
	return bus.QueueSubscribe(events.BookingSubmitted, ReceiptQueue, r.Handle)
}

func (r *Receipts) Handle(msg *events.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	var ev events.BookingSubmittedEvent
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		logger.Error("Dropping malformed booking event", "error", err, "subject", msg.Subject)
		return
	}
	if ev.Email == "" {
		logger.Warn("Booking event has no email, skipping receipt", "booking_id", ev.BookingID)
		return
	}

	checkIn, _ := domain.ParseDate(ev.CheckIn)
	checkOut, _ := domain.ParseDate(ev.CheckOut)
	receipt := mailer.Receipt{
		BookingID: ev.BookingID,
		GuestName: ev.GuestName,
		Email:     ev.Email,
		RoomType:  ev.RoomType,
		RoomCount: ev.RoomCount,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Nights:    ev.Nights,
		Total:     ev.TotalPrice,
	}

	id, err := mailer.SendReceipt(ctx, r.mailer, receipt)
	if err != nil {
		logger.Error("Failed to send booking receipt", "error", err, "booking_id", ev.BookingID)
		return
	}
	logger.Info("Booking receipt sent", "booking_id", ev.BookingID, "message_id", id)
}
