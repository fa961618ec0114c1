package redis

import (
	"testing"

	"cicd-dashboard/internal/bus"
	"cicd-dashboard/pkg/log"
)

func newTestSubscriber() (*Subscriber, *bus.Hub) {
	l := log.Init(log.ZapConfig{Level: "fatal", Mode: "development", Encoding: "console"})
	hub := bus.NewHub(l, 100)
	return NewSubscriber(nil, hub, l), hub
}

func TestHandleMessageRoutesToBus(t *testing.T) {
	tests := []struct {
		name      string
		channel   string
		payload   string
		published int64
	}{
		{
			"alerts topic",
			"realtime:alerts",
			`{"event":"alert:triggered","payload":{"id":"a1"}}`,
			1,
		},
		{
			"pipeline topic keeps its colon",
			"realtime:pipeline:42",
			`{"event":"pipeline:run:completed","payload":{"id":"run-1"}}`,
			1,
		},
		{
			"unknown topic dropped",
			"realtime:bogus",
			`{"event":"alert:triggered","payload":{}}`,
			0,
		},
		{
			"missing topic dropped",
			"realtime:",
			`{"event":"alert:triggered","payload":{}}`,
			0,
		},
		{
			"malformed payload dropped",
			"realtime:alerts",
			`not json`,
			0,
		},
		{
			"missing event dropped",
			"realtime:alerts",
			`{"payload":{}}`,
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, hub := newTestSubscriber()
			sub.handleMessage(tt.channel, tt.payload)

			if got := hub.GetStats().TotalPublishes; got != tt.published {
				t.Errorf("TotalPublishes = %d, want %d", got, tt.published)
			}
		})
	}
}

func TestHealthInfoTracksMessages(t *testing.T) {
	sub, _ := newTestSubscriber()

	active, lastMsg, pattern := sub.GetHealthInfo()
	if active {
		t.Error("bridge must be inactive before Start")
	}
	if !lastMsg.IsZero() {
		t.Error("lastMessageAt must be zero before any message")
	}
	if pattern != "realtime:*" {
		t.Errorf("pattern = %q", pattern)
	}

	sub.handleMessage("realtime:alerts", `{"event":"alert:triggered"}`)
	_, lastMsg, _ = sub.GetHealthInfo()
	if lastMsg.IsZero() {
		t.Error("lastMessageAt must advance after a message")
	}
}
