// Package api exposes the dashboard's REST surface: webhook intake,
// demo triggers, integration tests, the auth stub, and the mock read
// endpoints the frontend consumes.
package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/config"
	"cicd-dashboard/internal/alert"
	"cicd-dashboard/internal/bus"
	"cicd-dashboard/internal/notify"
	"cicd-dashboard/pkg/jwt"
	"cicd-dashboard/pkg/log"
)

// Notifier triggers alert dispatch across the configured channels.
type Notifier interface {
	PipelineAlert(ctx context.Context, run alert.PipelineRun) []notify.DeliveryResult
	SystemAlert(ctx context.Context, alertType, message string, data map[string]string) []notify.DeliveryResult
}

// Publisher pushes events onto the realtime bus.
type Publisher interface {
	Publish(topic, event string, payload any)
}

// StatsProvider reports realtime bus statistics.
type StatsProvider interface {
	GetStats() bus.HubStats
}

// EmailTransport is the slice of the email channel the demo endpoints use.
type EmailTransport interface {
	Enabled() bool
	Deliver(ctx context.Context, e alert.Event) error
	TestConnection(ctx context.Context) error
}

// Handler holds the REST handler dependencies.
type Handler struct {
	logger     log.Logger
	cfg        *config.Config
	dispatcher Notifier
	publisher  Publisher
	stats      StatsProvider
	email      EmailTransport
	transports []notify.Transport
	jwtMgr     *jwt.Manager
}

// Config is the constructor input for Handler.
type Config struct {
	Logger     log.Logger
	AppConfig  *config.Config
	Dispatcher Notifier
	Publisher  Publisher
	Stats      StatsProvider
	Email      EmailTransport
	Transports []notify.Transport
	JWTManager *jwt.Manager
}

// New creates the REST handler.
func New(cfg Config) *Handler {
	return &Handler{
		logger:     cfg.Logger,
		cfg:        cfg.AppConfig,
		dispatcher: cfg.Dispatcher,
		publisher:  cfg.Publisher,
		stats:      cfg.Stats,
		email:      cfg.Email,
		transports: cfg.Transports,
		jwtMgr:     cfg.JWTManager,
	}
}

// SetupRoutes mounts all REST routes under /api.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	webhooks := api.Group("/webhooks")
	webhooks.POST("/github", h.githubWebhook)
	webhooks.POST("/jenkins", h.jenkinsWebhook)
	webhooks.POST("/gitlab", h.gitlabWebhook)
	webhooks.GET("/verify/:platform", h.verifyWebhook)

	demo := api.Group("/demo")
	demo.POST("/pipeline-run", h.demoPipelineRun)
	demo.POST("/alert-email", h.demoAlertEmail)
	demo.GET("/test-email", h.demoTestEmail)
	demo.GET("/status", h.demoStatus)

	api.GET("/pipelines", h.listPipelines)
	api.GET("/pipelines/:id", h.getPipeline)
	api.GET("/pipelines/:id/runs", h.listPipelineRuns)

	api.GET("/alerts", h.listAlerts)
	api.GET("/alerts/history", h.alertHistory)

	api.GET("/metrics/dashboard", h.dashboardMetrics)
	api.GET("/metrics/trends", h.metricTrends)

	api.GET("/monitoring/status", h.monitoringStatus)

	api.POST("/integrations/:id/test", h.testIntegration)

	api.POST("/auth/login", h.login)
}

// publishRunCompleted announces a finished run on the dashboard topic
// and on the run's own pipeline topic.
func (h *Handler) publishRunCompleted(run alert.PipelineRun) {
	if h.publisher == nil {
		return
	}
	h.publisher.Publish(bus.TopicDashboard, "pipeline:run:completed", run)
	if run.PipelineID != "" {
		h.publisher.Publish(bus.PipelineTopic(run.PipelineID), "pipeline:run:completed", run)
	}
}
