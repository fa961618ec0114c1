package bus

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cicd-dashboard/pkg/jwt"
	"cicd-dashboard/pkg/log"
)

// Handler upgrades HTTP requests to bus connections.
type Handler struct {
	hub      *Hub
	verifier *jwt.Manager
	logger   log.Logger
	wsConfig WSConfig
	upgrader websocket.Upgrader
}

// WSConfig holds connection tuning for the handler.
type WSConfig struct {
	PongWait        time.Duration
	PingPeriod      time.Duration
	WriteWait       time.Duration
	ReadBufferSize  int
	WriteBufferSize int
}

// NewHandler creates a new bus handler. A nil verifier leaves the
// endpoint open; with a verifier, clients must present a valid token
// query parameter.
func NewHandler(hub *Hub, verifier *jwt.Manager, logger log.Logger, wsConfig WSConfig) *Handler {
	return &Handler{
		hub:      hub,
		verifier: verifier,
		logger:   logger,
		wsConfig: wsConfig,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsConfig.ReadBufferSize,
			WriteBufferSize: wsConfig.WriteBufferSize,
			// Allow all origins for now (configure in production)
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket handles WebSocket connection requests.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	if h.verifier != nil {
		token := c.Query("token")
		if token == "" {
			h.logger.Warn(context.Background(), "WebSocket connection rejected: missing token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token parameter"})
			return
		}
		if _, err := h.verifier.VerifyToken(token); err != nil {
			h.logger.Warnf(context.Background(), "WebSocket connection rejected: invalid token - %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf(context.Background(), "Failed to upgrade connection: %v", err)
		return
	}

	connection := NewConnection(
		h.hub,
		conn,
		uuid.NewString(),
		h.wsConfig.PongWait,
		h.wsConfig.PingPeriod,
		h.wsConfig.WriteWait,
		h.logger,
	)

	if !h.hub.enqueueRegister(connection) {
		h.logger.Warnf(context.Background(), "Registration timed out for client %s", connection.id)
		conn.Close()
		return
	}

	connection.Start()

	h.logger.Infof(context.Background(), "WebSocket connection established: %s", connection.id)
}

// SetupRoutes mounts the realtime endpoint.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/ws", h.HandleWebSocket)
}
