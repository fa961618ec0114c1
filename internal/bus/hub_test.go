package bus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cicd-dashboard/pkg/log"
)

func newTestHub() *Hub {
	l := log.Init(log.ZapConfig{Level: "fatal", Mode: "development", Encoding: "console"})
	return NewHub(l, 100)
}

func newTestConnection(h *Hub, id string) *Connection {
	l := log.Init(log.ZapConfig{Level: "fatal", Mode: "development", Encoding: "console"})
	conn := NewConnection(h, nil, id, time.Minute, time.Minute, time.Second, l)
	h.registerConnection(conn)
	return conn
}

// drain returns every envelope currently queued on the connection.
func drain(t *testing.T, c *Connection) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case data := <-c.send:
			var e Envelope
			if err := json.Unmarshal(data, &e); err != nil {
				t.Fatalf("invalid envelope on wire: %v", err)
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestPublishReachesSubscribersExactlyOnce(t *testing.T) {
	h := newTestHub()
	sub := newTestConnection(h, "sub")
	other := newTestConnection(h, "other")

	if err := h.Subscribe(sub, TopicDashboard); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	h.Publish(TopicDashboard, "pipeline:run:completed", map[string]string{"id": "run-1"})

	got := drain(t, sub)
	if len(got) != 1 {
		t.Fatalf("subscriber got %d envelopes, want 1", len(got))
	}
	if got[0].Event != "pipeline:run:completed" || got[0].Topic != TopicDashboard {
		t.Errorf("envelope = %+v", got[0])
	}
	var payload map[string]string
	if err := json.Unmarshal(got[0].Payload, &payload); err != nil || payload["id"] != "run-1" {
		t.Errorf("payload = %s, err = %v", got[0].Payload, err)
	}

	if got := drain(t, other); len(got) != 0 {
		t.Errorf("non-subscriber got %d envelopes, want 0", len(got))
	}
}

func TestSubscribeIsIdempotent(t *testing.T) {
	h := newTestHub()
	sub := newTestConnection(h, "sub")

	h.Subscribe(sub, TopicAlerts)
	h.Subscribe(sub, TopicAlerts)

	h.Publish(TopicAlerts, "alert:triggered", nil)

	if got := drain(t, sub); len(got) != 1 {
		t.Errorf("double subscribe delivered %d envelopes, want 1", len(got))
	}
	if n := h.SubscriberCount(TopicAlerts); n != 1 {
		t.Errorf("SubscriberCount = %d, want 1", n)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	h := newTestHub()
	sub := newTestConnection(h, "sub")

	h.Subscribe(sub, TopicDashboard)
	h.Unsubscribe(sub, TopicDashboard)

	h.Publish(TopicDashboard, "pipeline:run:completed", nil)

	if got := drain(t, sub); len(got) != 0 {
		t.Errorf("unsubscribed connection got %d envelopes, want 0", len(got))
	}
}

func TestUnsubscribeUnknownTopicIsNoop(t *testing.T) {
	h := newTestHub()
	sub := newTestConnection(h, "sub")

	h.Unsubscribe(sub, TopicAlerts)
	h.Unsubscribe(sub, "pipeline:never-joined")
}

func TestTopicMatchingIsExact(t *testing.T) {
	h := newTestHub()
	sub := newTestConnection(h, "sub")

	h.Subscribe(sub, PipelineTopic("42"))

	h.Publish(PipelineTopic("4"), "pipeline:run:completed", nil)
	h.Publish(TopicDashboard, "pipeline:run:completed", nil)
	if got := drain(t, sub); len(got) != 0 {
		t.Fatalf("got %d envelopes from unrelated topics, want 0", len(got))
	}

	h.Publish(PipelineTopic("42"), "pipeline:run:completed", nil)
	if got := drain(t, sub); len(got) != 1 {
		t.Errorf("got %d envelopes from exact topic, want 1", len(got))
	}
}

func TestUnregisterCleansUpSubscriptions(t *testing.T) {
	h := newTestHub()
	sub := newTestConnection(h, "sub")

	h.Subscribe(sub, TopicDashboard)
	h.Subscribe(sub, PipelineTopic("42"))

	h.unregisterConnection(sub)

	if n := h.SubscriberCount(TopicDashboard); n != 0 {
		t.Errorf("dashboard subscribers after unregister = %d, want 0", n)
	}
	stats := h.GetStats()
	if stats.ActiveConnections != 0 || stats.ActiveTopics != 0 {
		t.Errorf("stats after unregister = %+v", stats)
	}

	// Publishing after disconnect must not panic or deliver.
	h.Publish(TopicDashboard, "pipeline:run:completed", nil)
}

func TestPublishToEmptyTopic(t *testing.T) {
	h := newTestHub()
	h.Publish(TopicAlerts, "alert:triggered", map[string]string{"id": "a1"})

	stats := h.GetStats()
	if stats.TotalPublishes != 1 || stats.TotalMessagesSent != 0 {
		t.Errorf("stats = %+v, want 1 publish and 0 sends", stats)
	}
}

func TestMaxConnectionsRejected(t *testing.T) {
	l := log.Init(log.ZapConfig{Level: "fatal", Mode: "development", Encoding: "console"})
	h := NewHub(l, 1)

	newTestConnection(h, "first")
	second := NewConnection(h, nil, "second", time.Minute, time.Minute, time.Second, l)
	h.registerConnection(second)

	if got := h.GetStats().ActiveConnections; got != 1 {
		t.Errorf("ActiveConnections = %d, want 1", got)
	}
}

func TestHubShutdown(t *testing.T) {
	h := newTestHub()
	go h.Run()

	sub := NewConnection(h, nil, "sub", time.Minute, time.Minute, time.Second, h.logger)
	h.register <- sub

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
