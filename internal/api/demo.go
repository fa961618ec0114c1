package api

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/internal/alert"
	"cicd-dashboard/pkg/errors"
	"cicd-dashboard/pkg/response"
)

type demoPipelineRunRequest struct {
	Status     string `json:"status"`
	PipelineID string `json:"pipelineId"`
}

// demoPipelineRun simulates one pipeline run, publishing the realtime
// event and dispatching alerts when the simulated run failed.
func (h *Handler) demoPipelineRun(c *gin.Context) {
	ctx := c.Request.Context()

	req := demoPipelineRunRequest{Status: "failed", PipelineID: "demo-pipeline-1"}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, errors.NewHTTPError(http.StatusBadRequest, "invalid request body"))
			return
		}
		if req.Status == "" {
			req.Status = "failed"
		}
		if req.PipelineID == "" {
			req.PipelineID = "demo-pipeline-1"
		}
	}

	h.logger.Infof(ctx, "Simulating pipeline run: status=%s pipelineId=%s", req.Status, req.PipelineID)

	now := time.Now()
	run := alert.PipelineRun{
		ID:           fmt.Sprintf("demo-run-%d", now.UnixMilli()),
		PipelineID:   req.PipelineID,
		PipelineName: "Demo Frontend Pipeline",
		Status:       req.Status,
		Duration:     rand.Intn(300) + 60,
		Platform:     "github_actions",
		Branch:       "main",
		CommitSHA:    fmt.Sprintf("%x", rand.Int63()),
		TriggeredBy:  "demo@example.com",
		StartTime:    now.Add(-5 * time.Minute),
		EndTime:      now,
	}

	h.publishRunCompleted(run)

	alertSent := false
	if run.Status == "failed" {
		h.dispatcher.PipelineAlert(ctx, run)
		alertSent = true
	}

	response.OKWithMessage(c, "Pipeline run simulated successfully", gin.H{
		"run":       run,
		"alertSent": alertSent,
	})
}

// demoAlertEmail sends a canned failure alert through the email channel.
func (h *Handler) demoAlertEmail(c *gin.Context) {
	ctx := c.Request.Context()
	recipient := h.cfg.Dashboard.DemoEmailRecipient

	h.logger.Infof(ctx, "Sending demo alert email: recipient=%s", recipient)

	e := alert.Event{
		PipelineName:  "Frontend CI/CD Demo Pipeline",
		Type:          alert.TypeFailure,
		Severity:      alert.SeverityError,
		SeverityLabel: "high",
		Message:       "Pipeline failed during test execution. The build process encountered errors in the unit test suite.",
		Timestamp:     time.Now(),
		RunID:         "demo-run-12345",
		Branch:        "main",
		CommitSHA:     "abc123def456789",
	}

	if err := h.email.Deliver(ctx, e); err != nil {
		h.logger.Errorf(ctx, "Failed to send demo alert email: %v", err)
		response.Error(c, errors.NewHTTPError(http.StatusInternalServerError, "Failed to send demo alert email"))
		return
	}

	response.OKWithMessage(c, fmt.Sprintf("Demo alert email sent successfully to %s", recipient), gin.H{
		"recipient": recipient,
		"alertType": e.Type,
		"severity":  e.SeverityLabel,
		"timestamp": e.Timestamp,
	})
}

// demoTestEmail reports SMTP configuration and connectivity.
func (h *Handler) demoTestEmail(c *gin.Context) {
	ctx := c.Request.Context()

	h.logger.Info(ctx, "Testing email configuration")

	connectionOK := false
	var connectionError string
	if h.email.Enabled() {
		if err := h.email.TestConnection(ctx); err != nil {
			connectionError = err.Error()
		} else {
			connectionOK = true
		}
	}

	response.OK(c, gin.H{
		"emailConfigured": h.email.Enabled(),
		"connectionTest":  connectionOK,
		"connectionError": connectionError,
		"recipient":       h.cfg.Dashboard.DemoEmailRecipient,
		"emailHost":       h.cfg.SMTP.Host,
	})
}

// demoStatus reports the service's demo-relevant configuration.
func (h *Handler) demoStatus(c *gin.Context) {
	channels := make(map[string]bool, len(h.transports))
	for _, tr := range h.transports {
		channels[tr.Name()] = tr.Enabled()
	}

	stats := h.stats.GetStats()

	response.OK(c, gin.H{
		"environment":       h.cfg.Environment.Name,
		"emailConfigured":   h.cfg.SMTP.Enabled(),
		"emailRecipient":    h.cfg.Dashboard.DemoEmailRecipient,
		"channels":          channels,
		"websocketEnabled":  true,
		"activeConnections": stats.ActiveConnections,
		"timestamp":         time.Now(),
	})
}
