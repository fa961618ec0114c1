package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/pkg/response"
)

func (h *Handler) listAlerts(c *gin.Context) {
	h.logger.Info(c.Request.Context(), "Fetching alert configurations")

	alerts := []gin.H{
		{
			"id":         "alert-1",
			"pipelineId": "pipeline-1",
			"name":       "Frontend CI/CD - Build Failure Alert",
			"alertType":  "failure",
			"conditions": gin.H{
				"threshold": 1,
				"metric":    "failure_count",
			},
			"notificationChannels": []gin.H{
				{"type": "discord", "config": gin.H{"channel": "#dev-alerts"}},
				{"type": "email", "config": gin.H{"recipients": []string{"team@company.com"}}},
			},
			"isActive": true,
		},
		{
			"id":         "alert-2",
			"pipelineId": "pipeline-2",
			"name":       "Backend API - Performance Alert",
			"alertType":  "performance_degradation",
			"conditions": gin.H{
				"threshold": 600,
				"metric":    "avg_build_time",
			},
			"notificationChannels": []gin.H{
				{"type": "teams", "config": gin.H{"channel": "#performance-alerts"}},
			},
			"isActive": true,
		},
	}

	response.OK(c, alerts)
}

func (h *Handler) alertHistory(c *gin.Context) {
	h.logger.Info(c.Request.Context(), "Fetching alert history")

	history := []gin.H{
		{
			"id":                   "alert-history-1",
			"alertConfigurationId": "alert-1",
			"pipelineId":           "pipeline-1",
			"pipelineRunId":        "run-124",
			"alertType":            "failure",
			"severity":             "high",
			"message":              "Pipeline failed on develop branch",
			"details": gin.H{
				"error":     "Test suite timeout",
				"duration":  90,
				"commitSha": "def456ghi789",
			},
			"notificationStatus": gin.H{
				"discord": gin.H{"status": "sent", "timestamp": time.Now()},
				"email":   gin.H{"status": "sent", "timestamp": time.Now()},
			},
			"createdAt": time.Now().Add(-10 * time.Minute),
		},
	}

	response.OK(c, gin.H{
		"history":    history,
		"pagination": pagination(len(history)),
	})
}
