package alert

import (
	"time"
)

// Type classifies what condition triggered an alert.
type Type string

const (
	TypeFailure                Type = "failure"
	TypePerformanceDegradation Type = "performance_degradation"
	TypeSuccessRateDrop        Type = "success_rate_drop"
	TypeBuildTimeIncrease      Type = "build_time_increase"
	TypeConsecutiveFailures    Type = "consecutive_failures"
	TypeSystem                 Type = "system"
)

// Severity is the channel-level severity used by all notification formatters.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Event is the unit dispatched to notification channels. It is constructed
// per triggering event, passed by value and discarded after delivery.
type Event struct {
	PipelineName string
	Type         Type
	Severity     Severity
	Message      string
	Timestamp    time.Time

	// SeverityLabel preserves the originally reported severity
	// (low/medium/high/critical) for surfaces that render it verbatim,
	// such as the email badge. Empty means "render Severity instead".
	SeverityLabel string

	// Status is the pipeline run status for run-triggered alerts
	// (success/failed/...). Empty for system alerts.
	Status string

	// Optional correlation fields. Empty values are omitted by formatters.
	RunID     string
	Branch    string
	CommitSHA string
	Duration  int // seconds, 0 means unknown

	// Free-form metadata rendered as channel-appropriate facts/fields.
	Metadata map[string]string
}

// ShortCommit returns the display form of the commit SHA (first 8 characters).
func (e Event) ShortCommit() string {
	if len(e.CommitSHA) <= 8 {
		return e.CommitSHA
	}
	return e.CommitSHA[:8]
}

// PipelineRun is the inbound trigger shape for pipeline status changes.
type PipelineRun struct {
	ID           string    `json:"id"`
	PipelineID   string    `json:"pipelineId"`
	PipelineName string    `json:"pipelineName"`
	Status       string    `json:"status"`
	Duration     int       `json:"duration,omitempty"`
	Platform     string    `json:"platform,omitempty"`
	Environment  string    `json:"environment,omitempty"`
	Branch       string    `json:"branch,omitempty"`
	CommitSHA    string    `json:"commitSha,omitempty"`
	TriggeredBy  string    `json:"triggeredBy,omitempty"`
	StartTime    time.Time `json:"startTime,omitempty"`
	EndTime      time.Time `json:"endTime,omitempty"`
}
