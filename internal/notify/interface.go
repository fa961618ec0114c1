package notify

import (
	"context"

	"cicd-dashboard/internal/alert"
)

// Transport is one delivery channel. Enabled gates whether the
// dispatcher attempts the channel at all; Deliver reports per-attempt
// failure without affecting other channels.
type Transport interface {
	Name() string
	Enabled() bool
	Deliver(ctx context.Context, e alert.Event) error
}

// Publisher pushes events to realtime subscribers.
type Publisher interface {
	Publish(topic, event string, payload any)
}
