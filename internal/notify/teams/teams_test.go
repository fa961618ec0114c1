package teams

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cicd-dashboard/config"
	"cicd-dashboard/internal/alert"
	"cicd-dashboard/pkg/log"
)

func newTestTransport(url string) *Transport {
	l := log.Init(log.ZapConfig{Level: "fatal", Mode: "development", Encoding: "console"})
	return New(l, config.TeamsConfig{WebhookURL: url}, "http://localhost:3000")
}

func sampleEvent() alert.Event {
	return alert.Event{
		PipelineName: "Backend API",
		Type:         alert.TypeFailure,
		Severity:     alert.SeverityError,
		Status:       "failed",
		Duration:     145,
	}
}

func TestDeliverSuccess(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Errorf("invalid JSON body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := newTestTransport(srv.URL)
	if err := tr.Deliver(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}

	if captured["themeColor"] != "FF0000" {
		t.Errorf("themeColor = %v, want FF0000", captured["themeColor"])
	}
	if captured["title"] != "❌ Pipeline FAILED" {
		t.Errorf("title = %v", captured["title"])
	}
	actions, ok := captured["potentialAction"].([]any)
	if !ok || len(actions) != 1 {
		t.Fatalf("potentialAction = %v, want one OpenUri action", captured["potentialAction"])
	}
	first := actions[0].(map[string]any)
	if first["@type"] != "OpenUri" {
		t.Errorf("action @type = %v, want OpenUri", first["@type"])
	}
}

func TestDeliverNon200IsFailure(t *testing.T) {
	statuses := []int{http.StatusAccepted, http.StatusBadRequest, http.StatusInternalServerError}

	for _, status := range statuses {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		tr := newTestTransport(srv.URL)
		if err := tr.Deliver(context.Background(), sampleEvent()); err == nil {
			t.Errorf("Deliver() with status %d should fail", status)
		}
		srv.Close()
	}
}

func TestDeliverConnectionError(t *testing.T) {
	tr := newTestTransport("http://127.0.0.1:1")
	if err := tr.Deliver(context.Background(), sampleEvent()); err == nil {
		t.Fatal("Deliver() to unreachable host should fail")
	}
}

func TestDeliverUnconfigured(t *testing.T) {
	tr := newTestTransport("")
	if err := tr.Deliver(context.Background(), sampleEvent()); err == nil {
		t.Fatal("Deliver() without webhook URL should fail")
	}
}
