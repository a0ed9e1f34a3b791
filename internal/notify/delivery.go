package notify

import (
	"context"
	"log"
	"time"
)

// Message is one rendered notification.  It is JSON encoded when it
// travels through the message broker.
type Message struct {
	ID            string    `json:"id"`
	Event         Event     `json:"event"`
	Role          string    `json:"role"`
	Recipient     string    `json:"recipient,omitempty"` // guest username; empty for staff broadcast
	ReservationID uint64    `json:"reservation_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

// Delivery hands a message to the push channel.  Implementations may fail;
// the dispatcher never retries.
type Delivery interface {
	Deliver(ctx context.Context, m Message) error
}

// DeliveryFunc adapts a function to Delivery.
type DeliveryFunc func(ctx context.Context, m Message) error

func (f DeliveryFunc) Deliver(ctx context.Context, m Message) error { return f(ctx, m) }

// LogDelivery writes messages to the standard logger.  It is used when no
// broker is configured.
type LogDelivery struct{}

func (LogDelivery) Deliver(_ context.Context, m Message) error {
	log.Printf("notify: [%s] to=%s %q: %s", m.Role, recipientLabel(m), m.Title, m.Body)
	return nil
}

func recipientLabel(m Message) string {
	if m.Recipient == "" {
		return "*"
	}
	return m.Recipient
}
