package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/pkg/response"
)

// Mock read endpoints: the dashboard frontend consumes these shapes.
// There is no persistence behind them.

func pagination(total int) gin.H {
	return gin.H{
		"page":       1,
		"limit":      10,
		"total":      total,
		"totalPages": 1,
		"hasNext":    false,
		"hasPrev":    false,
	}
}

func (h *Handler) listPipelines(c *gin.Context) {
	h.logger.Info(c.Request.Context(), "Fetching pipelines")

	pipelines := []gin.H{
		{
			"id":            "1",
			"name":          "Frontend CI/CD",
			"repositoryUrl": "https://github.com/company/frontend-app",
			"platform":      "github_actions",
			"status":        "active",
			"configuration": gin.H{
				"workflowFile": ".github/workflows/ci.yml",
				"branches":     []string{"main", "develop"},
				"triggers":     []string{"push", "pull_request"},
			},
			"metrics": gin.H{
				"successRate":  96.2,
				"avgBuildTime": 145,
				"totalRuns":    342,
				"lastRun": gin.H{
					"id":        "run-123",
					"status":    "success",
					"duration":  165,
					"timestamp": time.Now(),
				},
			},
		},
		{
			"id":            "2",
			"name":          "Backend API Tests",
			"repositoryUrl": "https://github.com/company/backend-api",
			"platform":      "github_actions",
			"status":        "active",
			"configuration": gin.H{
				"workflowFile": ".github/workflows/test.yml",
				"branches":     []string{"main"},
				"triggers":     []string{"push"},
			},
			"metrics": gin.H{
				"successRate":  94.5,
				"avgBuildTime": 230,
				"totalRuns":    156,
				"lastRun": gin.H{
					"id":        "run-124",
					"status":    "failed",
					"duration":  180,
					"timestamp": time.Now(),
				},
			},
		},
	}

	response.OK(c, gin.H{
		"pipelines":  pipelines,
		"pagination": pagination(len(pipelines)),
	})
}

func (h *Handler) getPipeline(c *gin.Context) {
	id := c.Param("id")
	h.logger.Infof(c.Request.Context(), "Fetching pipeline details: id=%s", id)

	response.OK(c, gin.H{
		"id":            id,
		"name":          "Frontend CI/CD",
		"repositoryUrl": "https://github.com/company/frontend-app",
		"platform":      "github_actions",
		"status":        "active",
		"configuration": gin.H{
			"workflowFile": ".github/workflows/ci.yml",
			"branches":     []string{"main", "develop"},
			"triggers":     []string{"push", "pull_request"},
		},
		"metrics": gin.H{
			"successRate":  96.2,
			"avgBuildTime": 145,
			"totalRuns":    342,
			"lastRun": gin.H{
				"id":        "run-123",
				"status":    "success",
				"duration":  165,
				"timestamp": time.Now(),
			},
		},
	})
}

func (h *Handler) listPipelineRuns(c *gin.Context) {
	id := c.Param("id")
	h.logger.Infof(c.Request.Context(), "Fetching pipeline runs: id=%s", id)

	runs := []gin.H{
		{
			"id":           "run-342",
			"pipelineId":   id,
			"runNumber":    342,
			"status":       "success",
			"startTime":    time.Now().Add(-5 * time.Minute),
			"endTime":      time.Now().Add(-135 * time.Second),
			"duration":     165,
			"commitSha":    "abc123def456",
			"branch":       "main",
			"triggeredBy":  "john.doe@company.com",
			"triggerEvent": "push",
		},
		{
			"id":           "run-341",
			"pipelineId":   id,
			"runNumber":    341,
			"status":       "failed",
			"startTime":    time.Now().Add(-10 * time.Minute),
			"endTime":      time.Now().Add(-510 * time.Second),
			"duration":     90,
			"commitSha":    "def456ghi789",
			"branch":       "develop",
			"triggeredBy":  "jane.smith@company.com",
			"triggerEvent": "pull_request",
			"errorMessage": "Test suite failed",
		},
	}

	response.OK(c, gin.H{
		"runs":       runs,
		"pagination": pagination(len(runs)),
	})
}
