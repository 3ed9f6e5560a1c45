package events

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingRejected  = "booking_rejected"
	EventSelectionChanged = "selection_changed"
)

// BookingEventPayload is what the confirmation consumer (toasts, notifications) receives.
type BookingEventPayload struct {
	ConfirmationID string    `json:"confirmation_id,omitempty"`
	PropertyID     int64     `json:"property_id"`
	CheckIn        time.Time `json:"check_in,omitempty"`
	CheckOut       time.Time `json:"check_out,omitempty"`
	Guests         int       `json:"guests"`
	Nights         int       `json:"nights"`
	Total          int64     `json:"total"`
	Reason         string    `json:"reason,omitempty"`
	Message        string    `json:"message"`
}

// SelectionEventPayload describes a calendar pick result.
type SelectionEventPayload struct {
	SessionID  string `json:"session_id"`
	PropertyID int64  `json:"property_id"`
	State      string `json:"state"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
}

// Event is a published notification with a JSON payload.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
	Processed bool
}

// Decode unmarshals the payload into dst.
func (e *Event) Decode(dst interface{}) error {
	return json.Unmarshal(e.Payload, dst)
}

type EventHandler func(event *Event) error

// EventBus fans events out to subscribers in the publishing goroutine.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	seq         atomic.Int64
	logger      *zerolog.Logger
}

func NewEventBus(logger *zerolog.Logger) *EventBus {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &EventBus{subscribers: make(map[string][]EventHandler), logger: logger}
}

func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish delivers the event to every subscriber of its type. A failing handler
// is logged and does not stop delivery to the rest.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.ID == 0 {
		event.ID = b.seq.Add(1)
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	failed := false
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			failed = true
			b.logger.Warn().Err(err).Str("event_type", event.Type).Int64("event_id", event.ID).Msg("event handler failed")
		}
	}
	event.Processed = len(handlers) > 0 && !failed
}

func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}
	b.Publish(&event)
	return nil
}

func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
