package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/pkg/errors"
	"cicd-dashboard/pkg/response"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// login is a development stub: any credentials produce a signed token
// for an admin user. There is no user store behind it.
func (h *Handler) login(c *gin.Context) {
	ctx := c.Request.Context()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errors.NewHTTPError(http.StatusBadRequest, "email and password are required"))
		return
	}

	h.logger.Infof(ctx, "Login attempt: email=%s", req.Email)

	if h.jwtMgr == nil {
		response.Error(c, errors.NewHTTPError(http.StatusServiceUnavailable, "authentication is not configured"))
		return
	}

	token, err := h.jwtMgr.GenerateToken("1", req.Email, "admin")
	if err != nil {
		h.logger.Errorf(ctx, "Failed to generate token: %v", err)
		response.Error(c, errors.NewHTTPError(http.StatusInternalServerError, "failed to generate token"))
		return
	}

	response.OKWithMessage(c, "Login successful", gin.H{
		"user": gin.H{
			"id":        "1",
			"email":     req.Email,
			"firstName": "John",
			"lastName":  "Doe",
			"role":      "admin",
			"isActive":  true,
			"createdAt": time.Now(),
		},
		"token": token,
	})
}
