package format

import (
	"strings"
	"testing"
	"time"

	"cicd-dashboard/internal/alert"
)

func baseEvent() alert.Event {
	return alert.Event{
		PipelineName:  "Frontend CI/CD",
		Type:          alert.TypeFailure,
		Severity:      alert.SeverityError,
		SeverityLabel: "high",
		Message:       "build failed",
		Timestamp:     time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
	}
}

func TestEmailSubject(t *testing.T) {
	msg := Email(baseEvent(), "http://localhost:3000")
	want := "🚨 CI/CD Alert: Frontend CI/CD - failure"
	if msg.Subject != want {
		t.Errorf("Subject = %q, want %q", msg.Subject, want)
	}
}

func TestEmailSeverityColor(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{"critical is red", "critical", "#d32f2f"},
		{"high is orange", "high", "#f57c00"},
		{"medium is yellow", "medium", "#fbc02d"},
		{"low is green", "low", "#388e3c"},
		{"unknown falls back to gray", "whatever", "#757575"},
		{"empty falls back to gray", "", "#757575"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := severityColor(tt.label); got != tt.expected {
				t.Errorf("severityColor(%q) = %q, want %q", tt.label, got, tt.expected)
			}
		})
	}
}

func TestEmailOptionalFields(t *testing.T) {
	t.Run("all correlation fields present", func(t *testing.T) {
		e := baseEvent()
		e.RunID = "run-1"
		e.Branch = "main"
		e.CommitSHA = "abc123def456"

		msg := Email(e, "http://localhost:3000")

		for _, want := range []string{"Run ID: run-1", "Branch: main", "Commit: abc123de"} {
			if !strings.Contains(msg.Text, want) {
				t.Errorf("Text missing %q", want)
			}
		}
		if !strings.Contains(msg.HTML, "abc123de") {
			t.Error("HTML missing truncated commit")
		}
		if strings.Contains(msg.HTML, "abc123def456") {
			t.Error("HTML contains full commit SHA, want 8-char truncation")
		}
	})

	t.Run("absent fields are omitted", func(t *testing.T) {
		msg := Email(baseEvent(), "http://localhost:3000")

		for _, unwanted := range []string{"Run ID", "Branch", "Commit"} {
			if strings.Contains(msg.Text, unwanted) {
				t.Errorf("Text contains %q for event without that field", unwanted)
			}
			if strings.Contains(msg.HTML, "<strong>"+unwanted) {
				t.Errorf("HTML contains %q line for event without that field", unwanted)
			}
		}
	})
}

func TestEmailBody(t *testing.T) {
	e := baseEvent()
	e.Type = alert.TypeSuccessRateDrop

	msg := Email(e, "http://dash.example.com")

	if !strings.Contains(msg.HTML, "SUCCESS RATE DROP") {
		t.Error("HTML missing upper-cased alert type with spaces")
	}
	if !strings.Contains(msg.HTML, "HIGH") {
		t.Error("HTML missing upper-cased severity badge")
	}
	if !strings.Contains(msg.HTML, "#f57c00") {
		t.Error("HTML missing severity color")
	}
	if !strings.Contains(msg.HTML, `href="http://dash.example.com"`) {
		t.Error("HTML missing dashboard link")
	}
	if !strings.Contains(msg.Text, "build failed") {
		t.Error("Text missing alert message")
	}
}

func TestEmailFallsBackToChannelSeverity(t *testing.T) {
	e := baseEvent()
	e.SeverityLabel = ""
	e.Severity = alert.SeverityWarning

	msg := Email(e, "http://localhost:3000")
	if !strings.Contains(msg.Text, "Severity: WARNING") {
		t.Errorf("Text severity badge should fall back to channel severity, got: %q", msg.Text)
	}
}
