package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/internal/alert"
	"cicd-dashboard/internal/notify"
	"cicd-dashboard/pkg/errors"
	"cicd-dashboard/pkg/response"
)

type githubWorkflowRun struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	Conclusion   string    `json:"conclusion"`
	HeadBranch   string    `json:"head_branch"`
	HeadSHA      string    `json:"head_sha"`
	RunStartedAt time.Time `json:"run_started_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type githubWebhookPayload struct {
	Action      string             `json:"action"`
	WorkflowRun *githubWorkflowRun `json:"workflow_run"`
	Repository  struct {
		Name string `json:"name"`
	} `json:"repository"`
}

// githubWebhook handles GitHub Actions workflow events. Only completed
// workflow_run events produce a pipeline run; everything else is
// acknowledged and logged.
func (h *Handler) githubWebhook(c *gin.Context) {
	ctx := c.Request.Context()
	event := c.GetHeader("X-GitHub-Event")

	var payload githubWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, errors.NewHTTPError(http.StatusBadRequest, "invalid webhook payload"))
		return
	}

	h.logger.Infof(ctx, "GitHub webhook received: event=%s action=%s repository=%s",
		event, payload.Action, payload.Repository.Name)

	if event != "workflow_run" || payload.WorkflowRun == nil || payload.WorkflowRun.Status != "completed" {
		response.OKWithMessage(c, "Webhook processed successfully", nil)
		return
	}

	wr := payload.WorkflowRun
	status := "success"
	if wr.Conclusion != "success" {
		status = "failed"
	}

	run := alert.PipelineRun{
		ID:           fmt.Sprintf("gh-%d", wr.ID),
		PipelineID:   fmt.Sprintf("gh-%d", wr.ID),
		PipelineName: wr.Name,
		Status:       status,
		Duration:     int(wr.UpdatedAt.Sub(wr.RunStartedAt).Seconds()),
		Platform:     "github_actions",
		Branch:       wr.HeadBranch,
		CommitSHA:    wr.HeadSHA,
		StartTime:    wr.RunStartedAt,
		EndTime:      wr.UpdatedAt,
	}

	h.processRun(c, run)
}

type jenkinsWebhookPayload struct {
	Name  string `json:"name"`
	Build struct {
		Number  int    `json:"number"`
		Status  string `json:"status"`
		Phase   string `json:"phase"`
		FullURL string `json:"full_url"`
		SCM     struct {
			Branch string `json:"branch"`
			Commit string `json:"commit"`
		} `json:"scm"`
	} `json:"build"`
}

// jenkinsWebhook handles Jenkins notification-plugin events. Only the
// FINALIZED phase produces a pipeline run.
func (h *Handler) jenkinsWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var payload jenkinsWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, errors.NewHTTPError(http.StatusBadRequest, "invalid webhook payload"))
		return
	}

	h.logger.Infof(ctx, "Jenkins webhook received: job=%s build=%d status=%s phase=%s",
		payload.Name, payload.Build.Number, payload.Build.Status, payload.Build.Phase)

	if payload.Build.Phase != "FINALIZED" {
		response.OKWithMessage(c, "Jenkins webhook processed successfully", nil)
		return
	}

	status := "success"
	if payload.Build.Status != "SUCCESS" {
		status = "failed"
	}

	run := alert.PipelineRun{
		ID:           fmt.Sprintf("jenkins-%s-%d", payload.Name, payload.Build.Number),
		PipelineID:   fmt.Sprintf("jenkins-%s", payload.Name),
		PipelineName: payload.Name,
		Status:       status,
		Platform:     "jenkins",
		Branch:       payload.Build.SCM.Branch,
		CommitSHA:    payload.Build.SCM.Commit,
		EndTime:      time.Now(),
	}

	h.processRun(c, run)
}

type gitlabWebhookPayload struct {
	ObjectKind       string `json:"object_kind"`
	ObjectAttributes struct {
		ID       int64   `json:"id"`
		Status   string  `json:"status"`
		Ref      string  `json:"ref"`
		SHA      string  `json:"sha"`
		Duration float64 `json:"duration"`
	} `json:"object_attributes"`
	Project struct {
		Name string `json:"name"`
	} `json:"project"`
}

// gitlabWebhook handles GitLab pipeline events. Only terminal pipeline
// states (success/failed) produce a pipeline run.
func (h *Handler) gitlabWebhook(c *gin.Context) {
	ctx := c.Request.Context()
	event := c.GetHeader("X-Gitlab-Event")

	var payload gitlabWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, errors.NewHTTPError(http.StatusBadRequest, "invalid webhook payload"))
		return
	}

	h.logger.Infof(ctx, "GitLab webhook received: event=%s project=%s status=%s",
		event, payload.Project.Name, payload.ObjectAttributes.Status)

	attrs := payload.ObjectAttributes
	if payload.ObjectKind != "pipeline" || (attrs.Status != "success" && attrs.Status != "failed") {
		response.OKWithMessage(c, "GitLab webhook processed successfully", nil)
		return
	}

	run := alert.PipelineRun{
		ID:           fmt.Sprintf("gl-%d", attrs.ID),
		PipelineID:   fmt.Sprintf("gl-%d", attrs.ID),
		PipelineName: payload.Project.Name,
		Status:       attrs.Status,
		Duration:     int(attrs.Duration),
		Platform:     "gitlab_ci",
		Branch:       attrs.Ref,
		CommitSHA:    attrs.SHA,
		EndTime:      time.Now(),
	}

	h.processRun(c, run)
}

// processRun publishes the completed run and dispatches an alert when
// it failed. The caller always gets 200 with per-channel outcomes.
func (h *Handler) processRun(c *gin.Context, run alert.PipelineRun) {
	ctx := c.Request.Context()

	h.publishRunCompleted(run)

	var results []notify.DeliveryResult
	if run.Status == "failed" {
		results = h.dispatcher.PipelineAlert(ctx, run)
	}

	response.OKWithMessage(c, "Webhook processed successfully", gin.H{
		"runId":     run.ID,
		"status":    run.Status,
		"alertSent": run.Status == "failed",
		"channels":  results,
	})
}

// verifyWebhook answers platform verification probes.
func (h *Handler) verifyWebhook(c *gin.Context) {
	platform := strings.ToLower(c.Param("platform"))
	challenge := c.Query("challenge")

	h.logger.Infof(c.Request.Context(), "Webhook verification request: platform=%s", platform)

	switch platform {
	case "github", "jenkins", "gitlab":
		response.OK(c, gin.H{"verified": true})
	case "slack":
		if challenge == "" {
			response.Error(c, errors.NewHTTPError(http.StatusBadRequest, "Challenge parameter required"))
			return
		}
		response.OK(c, gin.H{"challenge": challenge})
	default:
		response.Error(c, errors.NewHTTPError(http.StatusBadRequest, "Unsupported platform"))
	}
}
