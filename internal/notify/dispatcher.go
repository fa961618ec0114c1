// Package notify fans alert events out to the configured delivery
// channels and reports per-channel outcomes.
package notify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"cicd-dashboard/internal/alert"
	"cicd-dashboard/internal/bus"
	"cicd-dashboard/pkg/log"
)

const deliveryTimeout = 10 * time.Second

// Dispatcher routes one alert event to every enabled transport in
// parallel. A failing channel never affects the others.
type Dispatcher struct {
	l          log.Logger
	publisher  Publisher
	transports []Transport
	timeout    time.Duration

	dispatched atomic.Int64
	delivered  atomic.Int64
	failed     atomic.Int64
}

// NewDispatcher creates a dispatcher over the given transports.
// Transport order determines result order.
func NewDispatcher(l log.Logger, publisher Publisher, transports ...Transport) *Dispatcher {
	return &Dispatcher{
		l:          l,
		publisher:  publisher,
		transports: transports,
		timeout:    deliveryTimeout,
	}
}

type outcome struct {
	idx int
	err error
}

// Dispatch delivers the event to all enabled channels concurrently and
// returns one result per attempted channel. Channels that are not
// enabled are skipped and produce no result. Attempts still running
// after the per-channel timeout are abandoned and recorded as failed.
func (d *Dispatcher) Dispatch(ctx context.Context, e alert.Event) []DeliveryResult {
	var enabled []Transport
	for _, tr := range d.transports {
		if tr.Enabled() {
			enabled = append(enabled, tr)
		} else {
			d.l.Debugf(ctx, "Channel %s not enabled, skipping", tr.Name())
		}
	}

	results := make([]DeliveryResult, len(enabled))
	for i, tr := range enabled {
		results[i] = DeliveryResult{Channel: tr.Name()}
	}
	if len(enabled) == 0 {
		d.l.Warn(ctx, "No notification channels enabled")
		return results
	}

	d.dispatched.Add(1)

	outcomes := make(chan outcome, len(enabled))
	for i, tr := range enabled {
		go func(i int, tr Transport) {
			defer func() {
				if r := recover(); r != nil {
					outcomes <- outcome{idx: i, err: fmt.Errorf("channel panicked: %v", r)}
				}
			}()

			dctx, cancel := context.WithTimeout(ctx, d.timeout)
			defer cancel()
			outcomes <- outcome{idx: i, err: tr.Deliver(dctx, e)}
		}(i, tr)
	}

	// Give stuck transports one extra second past their own deadline,
	// then abandon them. The buffered channel lets stragglers finish
	// without leaking the goroutine.
	deadline := time.NewTimer(d.timeout + time.Second)
	defer deadline.Stop()

	settled := make([]bool, len(enabled))
	for received := 0; received < len(enabled); {
		select {
		case out := <-outcomes:
			settled[out.idx] = true
			received++
			if out.err != nil {
				results[out.idx].Error = out.err.Error()
				d.l.Errorf(ctx, "Failed to send %s notification: %v", enabled[out.idx].Name(), out.err)
			} else {
				results[out.idx].Success = true
			}
		case <-deadline.C:
			for i := range settled {
				if !settled[i] {
					results[i].Error = "delivery timed out"
					received++
				}
			}
		}
	}

	for _, r := range results {
		if r.Success {
			d.delivered.Add(1)
		} else {
			d.failed.Add(1)
		}
	}
	return results
}

// PipelineAlert builds an alert event from a pipeline run, dispatches
// it, and announces it on the alerts topic.
func (d *Dispatcher) PipelineAlert(ctx context.Context, run alert.PipelineRun) []DeliveryResult {
	name := run.PipelineName
	if name == "" {
		name = "Unknown"
	}
	status := run.Status
	if status == "" {
		status = "unknown"
	}

	typ := alert.TypeFailure
	severityLabel := "high"
	if status != "failed" {
		typ = alert.Type(status)
		severityLabel = ""
	}

	metadata := map[string]string{
		"platform":    orDefault(run.Platform, "Unknown"),
		"environment": orDefault(run.Environment, "N/A"),
	}

	e := alert.Event{
		PipelineName:  name,
		Type:          typ,
		Severity:      alert.SeverityFromRunStatus(status),
		SeverityLabel: severityLabel,
		Message:       fmt.Sprintf("Pipeline %s has %s", name, status),
		Timestamp:     time.Now(),
		Status:        status,
		RunID:         run.ID,
		Branch:        run.Branch,
		CommitSHA:     run.CommitSHA,
		Duration:      run.Duration,
		Metadata:      metadata,
	}

	results := d.Dispatch(ctx, e)
	d.announce(e, run.PipelineID)
	return results
}

// SystemAlert dispatches an operational alert that is not tied to a
// pipeline run. A "severity" entry in data selects the channel severity;
// without one the alert is a warning.
func (d *Dispatcher) SystemAlert(ctx context.Context, alertType, message string, data map[string]string) []DeliveryResult {
	if alertType == "" {
		alertType = string(alert.TypeSystem)
	}

	severity := alert.SeverityWarning
	severityLabel := ""
	if label := data["severity"]; label != "" {
		severity = alert.MapSeverity(label)
		severityLabel = label
	}

	e := alert.Event{
		Type:          alert.Type(alertType),
		Severity:      severity,
		SeverityLabel: severityLabel,
		Message:       message,
		Timestamp:     time.Now(),
		Metadata:      data,
	}

	results := d.Dispatch(ctx, e)
	d.announce(e, "")
	return results
}

// announce pushes the alert onto the realtime alerts topic.
func (d *Dispatcher) announce(e alert.Event, pipelineID string) {
	if d.publisher == nil {
		return
	}
	d.publisher.Publish(bus.TopicAlerts, "alert:triggered", map[string]any{
		"id":           uuid.NewString(),
		"pipelineId":   pipelineID,
		"pipelineName": e.PipelineName,
		"alertType":    string(e.Type),
		"severity":     string(e.Severity),
		"message":      e.Message,
		"timestamp":    e.Timestamp.UTC().Format(time.RFC3339),
	})
}

// Stats returns a snapshot of dispatch counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Dispatched: d.dispatched.Load(),
		Delivered:  d.delivered.Load(),
		Failed:     d.failed.Load(),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
