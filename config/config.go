package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	// Server Configuration
	Server ServerConfig
	Logger LoggerConfig

	// Environment Configuration
	Environment EnvironmentConfig

	// Backing services
	Postgres PostgresConfig
	Redis    RedisConfig

	// WebSocket Configuration
	WebSocket WebSocketConfig

	// Authentication Configuration
	JWT JWTConfig

	// Notification channel configuration
	SMTP    SMTPConfig
	Discord DiscordConfig
	Teams   TeamsConfig

	// Dashboard links and demo settings
	Dashboard DashboardConfig
}

// ServerConfig is the configuration for the HTTP server
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"3001"`
	Mode string `env:"SERVER_MODE" envDefault:"release"`
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level        string `env:"LOGGER_LEVEL" envDefault:"info"`
	Mode         string `env:"LOGGER_MODE" envDefault:"production"`
	Encoding     string `env:"LOGGER_ENCODING" envDefault:"json"`
	ColorEnabled bool   `env:"LOGGER_COLOR_ENABLED" envDefault:"false"`
}

// EnvironmentConfig is the configuration for environment-aware features.
// Channel transports use Name to decide whether outbound sends are real.
type EnvironmentConfig struct {
	Name string `env:"ENV" envDefault:"development"`
}

// IsProduction reports whether outbound deliveries should really be sent.
func (e EnvironmentConfig) IsProduction() bool {
	return e.Name == "production"
}

// PostgresConfig is the configuration for the PostgreSQL pool.
// The pool is opened at startup and pinged by the health endpoint;
// no request path issues queries.
type PostgresConfig struct {
	Host     string `env:"DB_HOST"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	DBName   string `env:"DB_NAME"`
	SSLMode  string `env:"DB_SSL_MODE" envDefault:"disable"`
}

// Enabled reports whether a PostgreSQL pool should be opened.
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.DBName != ""
}

// RedisConfig is the configuration for the optional Redis event bridge.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	UseTLS   bool   `env:"REDIS_USE_TLS" envDefault:"false"`

	MaxRetries      int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	MinIdleConns    int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"10"`
	PoolSize        int           `env:"REDIS_POOL_SIZE" envDefault:"100"`
	PoolTimeout     time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`
	ConnMaxIdleTime time.Duration `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// Enabled reports whether the Redis bridge should be started.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// WebSocketConfig is the configuration for realtime connections
type WebSocketConfig struct {
	PingInterval    time.Duration `env:"WS_PING_INTERVAL" envDefault:"30s"`
	PongWait        time.Duration `env:"WS_PONG_WAIT" envDefault:"60s"`
	WriteWait       time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	MaxMessageSize  int64         `env:"WS_MAX_MESSAGE_SIZE" envDefault:"512"`
	ReadBufferSize  int           `env:"WS_READ_BUFFER_SIZE" envDefault:"1024"`
	WriteBufferSize int           `env:"WS_WRITE_BUFFER_SIZE" envDefault:"1024"`
	MaxConnections  int           `env:"WS_MAX_CONNECTIONS" envDefault:"10000"`
}

// JWTConfig is the configuration for the JWT
type JWTConfig struct {
	SecretKey string        `env:"JWT_SECRET"`
	Issuer    string        `env:"JWT_ISSUER" envDefault:"cicd-dashboard"`
	TTL       time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

// SMTPConfig is the configuration for the email notification channel
type SMTPConfig struct {
	Host     string `env:"EMAIL_HOST"`
	Port     int    `env:"EMAIL_PORT" envDefault:"587"`
	Username string `env:"EMAIL_USER"`
	Password string `env:"EMAIL_PASSWORD"`
	From     string `env:"EMAIL_FROM" envDefault:"CI/CD Dashboard <noreply@cicd-dashboard.com>"`
}

// Enabled reports whether the email channel is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.Username != "" && s.Password != ""
}

// DiscordConfig is the configuration for the Discord bot channel
type DiscordConfig struct {
	BotToken  string `env:"DISCORD_BOT_TOKEN"`
	ChannelID string `env:"DISCORD_CHANNEL_ID"`
}

// Enabled reports whether the Discord channel is configured.
func (d DiscordConfig) Enabled() bool {
	return d.BotToken != "" && d.ChannelID != ""
}

// TeamsConfig is the configuration for the Teams incoming-webhook channel
type TeamsConfig struct {
	WebhookURL string `env:"TEAMS_WEBHOOK_URL"`
}

// Enabled reports whether the Teams channel is configured.
func (t TeamsConfig) Enabled() bool {
	return t.WebhookURL != ""
}

// DashboardConfig holds the frontend link rendered into notifications
// and the default recipient used by the demo endpoints.
type DashboardConfig struct {
	FrontendURL        string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	DemoEmailRecipient string `env:"DEMO_EMAIL_RECIPIENT" envDefault:"team@example.com"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
