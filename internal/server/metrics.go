package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsResponse represents the metrics response.
type MetricsResponse struct {
	Service       string               `json:"service"`
	Timestamp     time.Time            `json:"timestamp"`
	Uptime        int64                `json:"uptime_seconds"`
	Connections   *ConnectionMetrics   `json:"connections"`
	Messages      *MessageMetrics      `json:"messages"`
	Notifications *NotificationMetrics `json:"notifications"`
}

// ConnectionMetrics represents realtime connection metrics.
type ConnectionMetrics struct {
	Active       int `json:"active"`
	ActiveTopics int `json:"active_topics"`
}

// MessageMetrics represents bus message metrics.
type MessageMetrics struct {
	Publishes     int64 `json:"publishes"`
	SentToClients int64 `json:"sent_to_clients"`
	Dropped       int64 `json:"dropped"`
}

// NotificationMetrics represents alert dispatch metrics.
type NotificationMetrics struct {
	Dispatched int64 `json:"dispatched"`
	Delivered  int64 `json:"delivered"`
	Failed     int64 `json:"failed"`
}

// metricsHandler reports counters as JSON.
func metricsHandler(c *gin.Context, cfg Config) {
	hubStats := cfg.Hub.GetStats()
	dispatchStats := cfg.Dispatcher.Stats()

	resp := MetricsResponse{
		Service:   "cicd-dashboard",
		Timestamp: time.Now(),
		Uptime:    int64(time.Since(startTime).Seconds()),
		Connections: &ConnectionMetrics{
			Active:       hubStats.ActiveConnections,
			ActiveTopics: hubStats.ActiveTopics,
		},
		Messages: &MessageMetrics{
			Publishes:     hubStats.TotalPublishes,
			SentToClients: hubStats.TotalMessagesSent,
			Dropped:       hubStats.TotalMessagesDropped,
		},
		Notifications: &NotificationMetrics{
			Dispatched: dispatchStats.Dispatched,
			Delivered:  dispatchStats.Delivered,
			Failed:     dispatchStats.Failed,
		},
	}

	c.JSON(http.StatusOK, resp)
}
