package bus

import (
	"encoding/json"
	"errors"
	"time"
)

// Client frame actions.
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionPing        = "ping"
)

// Server envelope events for protocol-level replies. Domain events
// ("pipeline:run:completed", "alert:triggered") are passed through
// Publish unchanged.
const (
	EventSubscribed   = "subscribed"
	EventUnsubscribed = "unsubscribed"
	EventPong         = "pong"
	EventError        = "error"
)

// ErrInvalidFrame is returned when a client frame cannot be parsed or
// names no known action.
var ErrInvalidFrame = errors.New("invalid client frame")

// ClientFrame is a message received from a client.
type ClientFrame struct {
	Action string `json:"action"`
	Topic  string `json:"topic,omitempty"`
}

// ParseClientFrame decodes and validates a raw client frame.
func ParseClientFrame(data []byte) (*ClientFrame, error) {
	var frame ClientFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, ErrInvalidFrame
	}
	switch frame.Action {
	case ActionSubscribe, ActionUnsubscribe:
		if frame.Topic == "" {
			return nil, ErrInvalidFrame
		}
	case ActionPing:
	default:
		return nil, ErrInvalidFrame
	}
	return &frame, nil
}

// Envelope is a message pushed to clients.
type Envelope struct {
	Event     string          `json:"event"`
	Topic     string          `json:"topic,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEnvelope wraps a payload for delivery. The payload is marshalled
// once here, not per subscriber.
func NewEnvelope(topic, event string, payload any) (*Envelope, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = data
	}
	return &Envelope{
		Event:     event,
		Topic:     topic,
		Payload:   raw,
		Timestamp: time.Now(),
	}, nil
}

// ToJSON converts the envelope to its wire form.
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
