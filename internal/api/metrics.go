package api

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/pkg/response"
)

func (h *Handler) dashboardMetrics(c *gin.Context) {
	h.logger.Info(c.Request.Context(), "Fetching dashboard metrics")

	response.OK(c, gin.H{
		"overview": gin.H{
			"totalPipelines":  25,
			"activePipelines": 22,
			"totalRuns":       1247,
			"successRate":     94.5,
			"avgBuildTime":    180,
			"lastUpdateTime":  time.Now(),
		},
		"recentRuns": []gin.H{
			{
				"id":           "run-123",
				"pipelineId":   "pipeline-456",
				"pipelineName": "Frontend CI/CD",
				"status":       "success",
				"duration":     165,
				"startTime":    time.Now().Add(-5 * time.Minute),
				"endTime":      time.Now().Add(-135 * time.Second),
				"branch":       "main",
				"commitSha":    "abc123def456",
				"triggeredBy":  "john.doe@company.com",
			},
			{
				"id":           "run-124",
				"pipelineId":   "pipeline-457",
				"pipelineName": "Backend API Tests",
				"status":       "failed",
				"duration":     90,
				"startTime":    time.Now().Add(-10 * time.Minute),
				"endTime":      time.Now().Add(-510 * time.Second),
				"branch":       "develop",
				"commitSha":    "def456ghi789",
				"triggeredBy":  "jane.smith@company.com",
			},
		},
		"alerts": []gin.H{
			{
				"id":           "alert-789",
				"type":         "failure",
				"pipelineName": "Backend API Tests",
				"message":      "Pipeline failed on develop branch",
				"timestamp":    time.Now().Add(-10 * time.Minute),
				"severity":     "high",
			},
		},
	})
}

func (h *Handler) metricTrends(c *gin.Context) {
	days := 7
	h.logger.Infof(c.Request.Context(), "Fetching trend metrics: days=%d", days)

	trends := make([]gin.H, 0, days+1)
	for i := days; i >= 0; i-- {
		trends = append(trends, gin.H{
			"date":         time.Now().AddDate(0, 0, -i),
			"successRate":  90 + rand.Float64()*10,
			"avgBuildTime": 150 + rand.Float64()*100,
			"totalRuns":    10 + rand.Intn(20),
			"failures":     rand.Intn(3),
		})
	}

	response.OK(c, trends)
}
