package notify

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// PreferenceSource exposes the flag bundles the dispatcher reads.  The
// dispatcher never writes preferences.
type PreferenceSource interface {
	GuestPreferences(ctx context.Context, guestID string) (model.GuestPreferences, error)
	StaffPreferences(ctx context.Context) (model.StaffPreferences, error)
}

// DefaultDeliveryTimeout bounds a single hand-off to the delivery channel.
const DefaultDeliveryTimeout = 3 * time.Second

// Dispatcher maps lifecycle events to messages for the recipient role.
type Dispatcher struct {
	prefs    PreferenceSource
	delivery Delivery
	timeout  time.Duration
	now      func() time.Time
}

// NewDispatcher constructs a Dispatcher.  A zero timeout selects
// DefaultDeliveryTimeout.
func NewDispatcher(prefs PreferenceSource, delivery Delivery, timeout time.Duration) *Dispatcher {
	if prefs == nil || delivery == nil {
		panic("nil dependency passed to NewDispatcher")
	}
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}
	return &Dispatcher{prefs: prefs, delivery: delivery, timeout: timeout, now: time.Now}
}

// Notify sends the message for event e about r if the recipient's flag is
// enabled.  It returns nothing: disabled flags, preference lookup
// failures and delivery failures all end in silence.
func (d *Dispatcher) Notify(ctx context.Context, e Event, r model.Reservation) {
	d.Send(ctx, e, r)
}

// Send is Notify that also reports the message it built.  The bool is
// false when nothing was handed to the delivery channel successfully.
func (d *Dispatcher) Send(ctx context.Context, e Event, r model.Reservation) (Message, bool) {
	role := e.Role()
	if role == "" {
		log.Printf("dispatcher: unknown event %q for reservation %d", e, r.ID)
		return Message{}, false
	}
	enabled, err := d.enabled(ctx, e, r)
	if err != nil {
		log.Printf("dispatcher: preference lookup for %s failed: %v", e, err)
		return Message{}, false
	}
	if !enabled {
		return Message{}, false
	}

	title, body := Render(e, r)
	m := Message{
		ID:            uuid.NewString(),
		Event:         e,
		Role:          role,
		ReservationID: r.ID,
		Title:         title,
		Body:          body,
		CreatedAt:     d.now().UTC(),
	}
	if role == model.RoleGuest {
		m.Recipient = r.GuestID
	}

	// Detach from the caller's cancellation so a finished HTTP request does
	// not abort the hand-off, but keep the delivery bounded.
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()
	if err := d.delivery.Deliver(dctx, m); err != nil {
		log.Printf("dispatcher: deliver %s for reservation %d failed: %v", e, r.ID, err)
		return m, false
	}
	return m, true
}

func (d *Dispatcher) enabled(ctx context.Context, e Event, r model.Reservation) (bool, error) {
	if e.Role() == model.RoleGuest {
		p, err := d.prefs.GuestPreferences(ctx, r.GuestID)
		if err != nil {
			return false, err
		}
		return guestEnabled(e, p), nil
	}
	p, err := d.prefs.StaffPreferences(ctx)
	if err != nil {
		return false, err
	}
	return staffEnabled(e, p), nil
}
