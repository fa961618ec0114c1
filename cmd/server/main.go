package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"cicd-dashboard/config"
	"cicd-dashboard/config/postgre"
	"cicd-dashboard/internal/api"
	"cicd-dashboard/internal/bus"
	"cicd-dashboard/internal/notify"
	"cicd-dashboard/internal/notify/discord"
	"cicd-dashboard/internal/notify/email"
	"cicd-dashboard/internal/notify/teams"
	redisBridge "cicd-dashboard/internal/redis"
	"cicd-dashboard/internal/server"
	"cicd-dashboard/pkg/jwt"
	"cicd-dashboard/pkg/log"
	"cicd-dashboard/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		return
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx := context.Background()
	logger.Info(ctx, "Starting CI/CD Dashboard Service...")

	// Initialize PostgreSQL pool (optional)
	var db *sql.DB
	if cfg.Postgres.Enabled() {
		db, err = postgre.Connect(ctx, cfg.Postgres)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to PostgreSQL: %v", err)
			return
		}
		defer db.Close()
		logger.Infof(ctx, "PostgreSQL connected successfully to %s", cfg.Postgres.Host)
	} else {
		logger.Warn(ctx, "PostgreSQL not configured, running without database")
	}

	// Initialize Redis client (optional)
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.NewClient(redis.Config{
			Host:            cfg.Redis.Host,
			Password:        cfg.Redis.Password,
			DB:              cfg.Redis.DB,
			UseTLS:          cfg.Redis.UseTLS,
			MaxRetries:      cfg.Redis.MaxRetries,
			MinIdleConns:    cfg.Redis.MinIdleConns,
			PoolSize:        cfg.Redis.PoolSize,
			PoolTimeout:     cfg.Redis.PoolTimeout,
			ConnMaxIdleTime: cfg.Redis.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Redis.ConnMaxLifetime,
		})
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
			return
		}
		defer redisClient.Close()
		logger.Infof(ctx, "Redis connected successfully to %s", cfg.Redis.Host)
	} else {
		logger.Warn(ctx, "Redis not configured, running without event bridge")
	}

	// Initialize JWT manager
	var jwtMgr *jwt.Manager
	if cfg.JWT.SecretKey != "" {
		jwtMgr = jwt.NewManager(jwt.Config{
			SecretKey: cfg.JWT.SecretKey,
			Issuer:    cfg.JWT.Issuer,
			TTL:       cfg.JWT.TTL,
		})
	} else {
		logger.Warn(ctx, "JWT secret not configured, realtime endpoint is open")
	}

	// Initialize realtime bus
	hub := bus.NewHub(logger, cfg.WebSocket.MaxConnections)
	go hub.Run()
	logger.Info(ctx, "Realtime hub started")

	// Initialize Redis bridge (optional)
	var subscriber *redisBridge.Subscriber
	if redisClient != nil {
		subscriber = redisBridge.NewSubscriber(redisClient, hub, logger)
		if err := subscriber.Start(); err != nil {
			logger.Errorf(ctx, "Failed to start Redis bridge: %v", err)
			return
		}
		logger.Info(ctx, "Redis Pub/Sub bridge started")
	}

	// Initialize notification transports
	emailTransport := email.New(
		logger,
		cfg.SMTP,
		cfg.Dashboard.DemoEmailRecipient,
		cfg.Dashboard.FrontendURL,
		cfg.Environment.IsProduction(),
	)

	discordTransport := discord.New(logger, cfg.Discord)
	if cfg.Discord.BotToken != "" {
		if err := discordTransport.Start(ctx); err != nil {
			logger.Warnf(ctx, "Discord bot failed to start: %v", err)
		}
		defer discordTransport.Close()
	}

	teamsTransport := teams.New(logger, cfg.Teams, cfg.Dashboard.FrontendURL)

	transports := []notify.Transport{emailTransport, discordTransport, teamsTransport}
	dispatcher := notify.NewDispatcher(logger, hub, transports...)
	logger.Infof(ctx, "Notification dispatcher ready: email=%t discord=%t teams=%t",
		cfg.SMTP.Enabled(), cfg.Discord.Enabled(), cfg.Teams.Enabled())

	// Setup Gin router
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Setup realtime routes
	busHandler := bus.NewHandler(hub, jwtMgr, logger, bus.WSConfig{
		PongWait:        cfg.WebSocket.PongWait,
		PingPeriod:      cfg.WebSocket.PingInterval,
		WriteWait:       cfg.WebSocket.WriteWait,
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
	})
	busHandler.SetupRoutes(router)

	// Setup REST routes
	apiHandler := api.New(api.Config{
		Logger:     logger,
		AppConfig:  cfg,
		Dispatcher: dispatcher,
		Publisher:  hub,
		Stats:      hub,
		Email:      emailTransport,
		Transports: transports,
		JWTManager: jwtMgr,
	})
	apiHandler.SetupRoutes(router)

	// Setup server
	srv := server.New(server.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Router:      router,
		Logger:      logger,
		Hub:         hub,
		Dispatcher:  dispatcher,
		RedisClient: redisClient,
		Postgres:    db,
		Subscriber:  subscriberOrNil(subscriber),
	})

	// Start server in a goroutine
	go func() {
		if err := srv.Start(); err != nil {
			logger.Errorf(ctx, "Server error: %v", err)
		}
	}()

	logger.Infof(ctx, "HTTP server listening on %s:%d", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown components in order
	if subscriber != nil {
		if err := subscriber.Shutdown(shutdownCtx); err != nil {
			logger.Errorf(ctx, "Error shutting down Redis bridge: %v", err)
		}
	}

	if err := hub.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "Error shutting down hub: %v", err)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "Error shutting down server: %v", err)
	}

	logger.Info(ctx, "Server shutdown complete")
}

// subscriberOrNil avoids storing a typed nil in the health provider
// interface when the bridge is disabled.
func subscriberOrNil(s *redisBridge.Subscriber) server.SubscriberHealthProvider {
	if s == nil {
		return nil
	}
	return s
}
