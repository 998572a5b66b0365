package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	App      AppConfig
	Auth     AuthConfig
	Kafka    KafkaConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver          string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName          string        `env:"DB_NAME" envDefault:"digitalbank"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnectRetries  int           `env:"DB_CONNECT_RETRIES" envDefault:"5"`
	ConnectBackoff  time.Duration `env:"DB_CONNECT_BACKOFF" envDefault:"500ms"`
	RunMigrations   bool          `env:"DB_RUN_MIGRATIONS" envDefault:"true"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	FailureRate  float64       `env:"FAILURE_RATE" envDefault:"0"`
	MinLatencyMS int           `env:"MIN_LATENCY_MS" envDefault:"0"`
	MaxLatencyMS int           `env:"MAX_LATENCY_MS" envDefault:"0"`
	RateCacheTTL time.Duration `env:"RATE_CACHE_TTL" envDefault:"1m"`
}

// AuthConfig holds token lifetimes, signup throttling and admin bootstrap settings
type AuthConfig struct {
	AccessTokenTTL        time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL       time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"168h"`
	SignupCooldown        time.Duration `env:"AUTH_SIGNUP_COOLDOWN" envDefault:"15m"`
	AllowPrivilegedSignup bool          `env:"AUTH_ALLOW_PRIVILEGED_SIGNUP" envDefault:"false"`
	SecureCookies         bool          `env:"AUTH_SECURE_COOKIES" envDefault:"false"`
	AdminEmail            string        `env:"ADMIN_EMAIL"`
	AdminPassword         string        `env:"ADMIN_PASSWORD"`
}

// KafkaConfig holds event publishing configuration. Publishing is disabled
// when no brokers are configured.
type KafkaConfig struct {
	Brokers      []string      `env:"KAFKA_BROKERS" envSeparator:","`
	Topic        string        `env:"KAFKA_TOPIC" envDefault:"digital-bank.events"`
	WriteTimeout time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"5s"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"` // debug, info, warn, error
}

// Load loads configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	for _, section := range []any{
		&cfg.Server,
		&cfg.Logger,
		&cfg.Database,
		&cfg.App,
		&cfg.Auth,
		&cfg.Kafka,
	} {
		if err := env.Parse(section); err != nil {
			return nil, fmt.Errorf("failed to parse environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host cannot be empty")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name cannot be empty")
		}
		if c.Database.ConnectRetries < 0 {
			return fmt.Errorf("database connect retries cannot be negative")
		}
		if c.Database.ConnectBackoff <= 0 {
			return fmt.Errorf("database connect backoff must be positive")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid storage driver: %s (must be postgres or memory)", c.Database.Driver)
	}

	if c.App.FailureRate < 0 || c.App.FailureRate > 1 {
		return fmt.Errorf("failure rate must be between 0 and 1, got %f", c.App.FailureRate)
	}

	if c.App.MinLatencyMS < 0 {
		return fmt.Errorf("min latency cannot be negative")
	}
	if c.App.MaxLatencyMS < c.App.MinLatencyMS {
		return fmt.Errorf("max latency (%d) must be >= min latency (%d)", c.App.MaxLatencyMS, c.App.MinLatencyMS)
	}

	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token ttl must be positive")
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		return fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", c.Auth.RefreshTokenTTL, c.Auth.AccessTokenTTL)
	}
	if c.Auth.SignupCooldown < 0 {
		return fmt.Errorf("signup cooldown cannot be negative")
	}
	if (c.Auth.AdminEmail == "") != (c.Auth.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		return fmt.Errorf("kafka topic cannot be empty when brokers are configured")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
