package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/pkg/errors"
	"cicd-dashboard/pkg/response"
)

// connectionTester is implemented by transports that can probe their
// backend without delivering anything.
type connectionTester interface {
	TestConnection(ctx context.Context) error
}

// testIntegration runs the matching channel's connectivity check. The
// integration ID is the channel name (email, discord, teams).
func (h *Handler) testIntegration(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	h.logger.Infof(ctx, "Testing integration: id=%s", id)

	for _, tr := range h.transports {
		if tr.Name() != id {
			continue
		}

		start := time.Now()
		var testErr error
		switch tester := tr.(type) {
		case connectionTester:
			testErr = tester.TestConnection(ctx)
		default:
			if !tr.Enabled() {
				testErr = errors.NewHTTPError(http.StatusServiceUnavailable, "channel not configured")
			}
		}

		result := gin.H{
			"success":          testErr == nil,
			"connectionStatus": "connected",
			"responseTimeMs":   time.Since(start).Milliseconds(),
			"lastTested":       time.Now(),
		}
		if testErr != nil {
			result["connectionStatus"] = "disconnected"
			result["error"] = testErr.Error()
		}

		response.OKWithMessage(c, "Integration test completed", result)
		return
	}

	response.Error(c, errors.NewHTTPError(http.StatusNotFound, "unknown integration"))
}
