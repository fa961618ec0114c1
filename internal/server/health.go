package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Redis      *ServiceHealth    `json:"redis,omitempty"`
	Postgres   *ServiceHealth    `json:"postgres,omitempty"`
	WebSocket  *WebSocketInfo    `json:"websocket"`
	Subscriber *SubscriberHealth `json:"subscriber,omitempty"`
	Uptime     int64             `json:"uptime_seconds"`
}

// ServiceHealth represents a backing service's health status.
type ServiceHealth struct {
	Status string  `json:"status"`
	PingMs float64 `json:"ping_ms,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// WebSocketInfo represents realtime bus info.
type WebSocketInfo struct {
	ActiveConnections int `json:"active_connections"`
	ActiveTopics      int `json:"active_topics"`
}

// SubscriberHealth represents Redis bridge health status.
type SubscriberHealth struct {
	Active        bool      `json:"active"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
	Pattern       string    `json:"pattern"`
}

// SubscriberHealthProvider reports bridge health.
type SubscriberHealthProvider interface {
	GetHealthInfo() (active bool, lastMessageAt time.Time, pattern string)
}

var startTime = time.Now()

// healthHandler reports composite service health. Optional backing
// services only degrade the status when they are configured and down.
func healthHandler(c *gin.Context, cfg Config) {
	ctx := c.Request.Context()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Uptime:    int64(time.Since(startTime).Seconds()),
	}

	if cfg.RedisClient != nil {
		health := &ServiceHealth{Status: "connected"}
		pingDuration, err := cfg.RedisClient.Ping(ctx)
		if err != nil {
			health.Status = "disconnected"
			health.Error = err.Error()
			resp.Status = "degraded"
			cfg.Logger.Errorf(ctx, "Redis health check failed: %v", err)
		} else {
			health.PingMs = float64(pingDuration.Microseconds()) / 1000.0
		}
		resp.Redis = health
	}

	if cfg.Postgres != nil {
		health := &ServiceHealth{Status: "connected"}
		start := time.Now()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := cfg.Postgres.PingContext(pingCtx)
		cancel()
		if err != nil {
			health.Status = "disconnected"
			health.Error = err.Error()
			resp.Status = "degraded"
			cfg.Logger.Errorf(ctx, "Postgres health check failed: %v", err)
		} else {
			health.PingMs = float64(time.Since(start).Microseconds()) / 1000.0
		}
		resp.Postgres = health
	}

	stats := cfg.Hub.GetStats()
	resp.WebSocket = &WebSocketInfo{
		ActiveConnections: stats.ActiveConnections,
		ActiveTopics:      stats.ActiveTopics,
	}

	if cfg.Subscriber != nil {
		active, lastMessageAt, pattern := cfg.Subscriber.GetHealthInfo()
		resp.Subscriber = &SubscriberHealth{
			Active:        active,
			LastMessageAt: lastMessageAt,
			Pattern:       pattern,
		}
	}

	statusCode := http.StatusOK
	if resp.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, resp)
}
