// Package server owns the HTTP server lifecycle and the operational
// endpoints (/health, /metrics).
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/internal/bus"
	"cicd-dashboard/internal/notify"
	"cicd-dashboard/pkg/log"
	"cicd-dashboard/pkg/redis"
)

// Server represents the HTTP server.
type Server struct {
	config Config
	server *http.Server
}

// Config holds server configuration. RedisClient, Postgres, and
// Subscriber are optional; absent services are omitted from health.
type Config struct {
	Host        string
	Port        int
	Router      *gin.Engine
	Logger      log.Logger
	Hub         *bus.Hub
	Dispatcher  *notify.Dispatcher
	RedisClient *redis.Client
	Postgres    *sql.DB
	Subscriber  SubscriberHealthProvider
}

// New creates a new Server instance.
func New(cfg Config) *Server {
	setupRoutes(cfg)

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:        cfg.Router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	return &Server{
		config: cfg,
		server: server,
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.config.Logger.Infof(context.Background(), "Starting HTTP server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.config.Logger.Info(ctx, "Shutting down HTTP server...")
	return s.server.Shutdown(ctx)
}

// setupRoutes mounts the operational endpoints.
func setupRoutes(cfg Config) {
	cfg.Router.GET("/health", func(c *gin.Context) {
		healthHandler(c, cfg)
	})
	cfg.Router.GET("/metrics", func(c *gin.Context) {
		metricsHandler(c, cfg)
	})
}
