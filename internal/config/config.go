package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Database  DatabaseConfig  `envPrefix:"DB_"`
	Auth      AuthConfig      `envPrefix:"JWT_"`
	Email     EmailConfig     `envPrefix:"EMAIL_"`
	Welcome   WelcomeConfig   `envPrefix:"WELCOME_"`
	Worker    WorkerConfig    `envPrefix:"WORKER_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Logging   LoggingConfig   `envPrefix:"LOG_"`
	Tracing   TracingConfig   `envPrefix:"OTEL_"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	// PublicURL is the base URL the server reaches itself on for the
	// registration-to-welcome call.
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	// TrustProxy takes the client address from X-Forwarded-For and X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers, since the
	// rate limiter keys on that address.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string        `env:"DRIVER" envDefault:"sqlite"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432"`
	Name            string        `env:"NAME" envDefault:"harmony"`
	User            string        `env:"USER"`
	Password        string        `env:"PASSWORD"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	AutoMigrate     bool          `env:"AUTO_MIGRATE" envDefault:"true"`
	// For SQLite
	Path string `env:"PATH" envDefault:"./harmony.db"`
}

// AuthConfig contains service token configuration
type AuthConfig struct {
	Secret      string        `env:"SECRET"`
	Issuer      string        `env:"ISSUER" envDefault:"sleep-harmony"`
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY" envDefault:"1h"`
}

// EmailConfig selects and configures the welcome email sender
type EmailConfig struct {
	Provider string `env:"PROVIDER" envDefault:"log"` // log, smtp or ses
	From     string `env:"FROM" envDefault:"Sleep Harmony <contact@sleepharmony.fr>"`
	SMTP     SMTPConfig `envPrefix:"SMTP_"`
	SES      SESConfig  `envPrefix:"SES_"`
}

// SMTPConfig contains SMTP relay configuration
type SMTPConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
}

// SESConfig contains AWS SES configuration
type SESConfig struct {
	Region          string `env:"REGION" envDefault:"eu-west-3"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
	ConfigurationSet string `env:"CONFIGURATION_SET"`
}

// WelcomeConfig controls how registration dispatches the welcome email
type WelcomeConfig struct {
	// Mode is "http" to call the welcome endpoint with a service token, or
	// "local" to render and send in process.
	Mode      string        `env:"MODE" envDefault:"local"`
	Workers   int           `env:"WORKERS" envDefault:"2"`
	QueueSize int           `env:"QUEUE_SIZE" envDefault:"100"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// WorkerConfig contains background job configuration
type WorkerConfig struct {
	TrialExpiryEnabled  bool   `env:"TRIAL_EXPIRY_ENABLED" envDefault:"true"`
	TrialExpirySchedule string `env:"TRIAL_EXPIRY_SCHEDULE" envDefault:"@every 1h"`
}

// RateLimitConfig contains per-IP rate limiting for public endpoints
type RateLimitConfig struct {
	Enabled           bool    `env:"ENABLED" envDefault:"true"`
	RequestsPerSecond float64 `env:"RPS" envDefault:"2"`
	Burst             int     `env:"BURST" envDefault:"10"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `env:"LEVEL" envDefault:"info"`
	Format     string `env:"FORMAT" envDefault:"json"` // json or console
	OutputPath string `env:"OUTPUT" envDefault:"stdout"`
}

// TracingConfig contains OpenTelemetry configuration. Tracing is off unless
// an endpoint is set.
type TracingConfig struct {
	Enabled     bool   `env:"ENABLED" envDefault:"true"`
	Endpoint    string `env:"ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"harmony-api"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if !slices.Contains([]string{"log", "smtp", "ses"}, c.Email.Provider) {
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}

	if c.Welcome.Mode != "http" && c.Welcome.Mode != "local" {
		return fmt.Errorf("unsupported welcome mode: %s", c.Welcome.Mode)
	}

	if c.Welcome.Workers < 1 || c.Welcome.QueueSize < 1 {
		return fmt.Errorf("welcome workers and queue size must be positive")
	}

	return nil
}

// Address returns the host:port the HTTP server listens on
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction reports whether the server runs in production
func (c ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

// LoadDatabase loads only the database and logging settings, for tools that
// do not serve HTTP
func LoadDatabase() (DatabaseConfig, LoggingConfig, error) {
	_ = godotenv.Load()

	var db DatabaseConfig
	if err := env.ParseWithOptions(&db, env.Options{Prefix: "DB_"}); err != nil {
		return db, LoggingConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if db.Driver != "sqlite" && db.Driver != "postgres" {
		return db, LoggingConfig{}, fmt.Errorf("unsupported database driver: %s", db.Driver)
	}

	var logging LoggingConfig
	if err := env.ParseWithOptions(&logging, env.Options{Prefix: "LOG_"}); err != nil {
		return db, logging, fmt.Errorf("parse env: %w", err)
	}
	return db, logging, nil
}
