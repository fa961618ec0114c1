package api

import (
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/pkg/response"
)

var startTime = time.Now()

// monitoringStatus reports service-level operational status: process
// info, realtime bus stats, and per-channel enablement.
func (h *Handler) monitoringStatus(c *gin.Context) {
	h.logger.Info(c.Request.Context(), "Fetching monitoring status")

	hostname, _ := os.Hostname()
	stats := h.stats.GetStats()

	channels := make(map[string]bool, len(h.transports))
	for _, tr := range h.transports {
		channels[tr.Name()] = tr.Enabled()
	}

	response.OK(c, gin.H{
		"status":        "healthy",
		"timestamp":     time.Now(),
		"uptimeSeconds": int64(time.Since(startTime).Seconds()),
		"system": gin.H{
			"hostname":   hostname,
			"platform":   runtime.GOOS,
			"arch":       runtime.GOARCH,
			"cpus":       runtime.NumCPU(),
			"goroutines": runtime.NumGoroutine(),
		},
		"websocket": gin.H{
			"activeConnections": stats.ActiveConnections,
			"activeTopics":      stats.ActiveTopics,
			"messagesSent":      stats.TotalMessagesSent,
			"messagesDropped":   stats.TotalMessagesDropped,
		},
		"channels": channels,
	})
}
