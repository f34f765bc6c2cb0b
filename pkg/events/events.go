package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url, name string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(toMessage(msg))
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(toMessage(msg))
	})
	return err
}

func (n *NATSEventBus) Close() error {
	return n.conn.Drain()
}

func toMessage(msg *nats.Msg) *Message {
	now := time.Now()
	return &Message{
		Subject:   msg.Subject,
		Data:      msg.Data,
		Timestamp: now,
		ID:        fmt.Sprintf("%d", now.UnixNano()),
	}
}

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus closed")

// LocalBus delivers events to in-process subscribers, each on its own
// goroutine so Publish never waits for a handler. Used when NATS_URL is empty
// so receipts still go out on a single node. Close waits for in-flight
// handlers.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]func(*Message)
	closed   bool
	inflight sync.WaitGroup
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[string][]func(*Message))}
}

func (b *LocalBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	handlers := b.handlers[subject]
	b.inflight.Add(len(handlers))
	b.mu.RUnlock()

	logger.DebugContext(ctx, "Publishing local event", "subject", subject, "subscribers", len(handlers))

	now := time.Now()
	for _, h := range handlers {
		msg := &Message{Subject: subject, Data: payload, Timestamp: now, ID: fmt.Sprintf("%d", now.UnixNano())}
		go b.deliver(h, msg)
	}
	return nil
}

func (b *LocalBus) deliver(h func(*Message), msg *Message) {
	defer b.inflight.Done()
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Local event handler panicked", "subject", msg.Subject, "panic", rec)
		}
	}()
	h(msg)
}

func (b *LocalBus) Subscribe(subject string, handler func(msg *Message)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	return nil
}

// QueueSubscribe ignores the queue group; there is only one member locally.
func (b *LocalBus) QueueSubscribe(subject, _ string, handler func(msg *Message)) error {
	return b.Subscribe(subject, handler)
}

// Close stops new deliveries and waits for running handlers to finish.
func (b *LocalBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.inflight.Wait()
	return nil
}

// Event subjects
const (
	BookingSubmitted = "hotel.booking.submitted"
	AccessDenied     = "hotel.access.denied"
	LoginSucceeded   = "hotel.auth.login"
	LoginThrottled   = "hotel.auth.throttled"
)

// Event payloads
type BookingSubmittedEvent struct {
	BookingID   int64     `json:"booking_id"`
	CustomerID  int64     `json:"customer_id"`
	GuestName   string    `json:"guest_name"`
	Email       string    `json:"email"`
	RoomTypeID  int64     `json:"room_type_id"`
	RoomType    string    `json:"room_type"`
	RoomCount   int       `json:"room_count"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Nights      int       `json:"nights"`
	TotalPrice  int64     `json:"total_price"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AccessDeniedEvent is emitted for every gate decision other than proceed so
// repeated token failures can be spotted downstream.
type AccessDeniedEvent struct {
	Path      string    `json:"path"`
	Outcome   string    `json:"outcome"`
	Reason    string    `json:"reason"`
	Role      string    `json:"role,omitempty"`
	RemoteIP  string    `json:"remote_ip,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

type LoginEvent struct {
	Email    string    `json:"email"`
	Role     string    `json:"role,omitempty"`
	RemoteIP string    `json:"remote_ip,omitempty"`
	At       time.Time `json:"at"`
}
