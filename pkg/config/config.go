// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golexcel/golexcel/pkg/observability"
	"github.com/golexcel/golexcel/pkg/store"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Social   SocialConfig

	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for probes)
	HealthPort string
}

// DatabaseConfig selects the SQL driver and DSN
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// SessionConfig holds session token settings. Secret is mandatory when
// Production is set; the dev fallback exists only so a fresh checkout runs.
type SessionConfig struct {
	Secret     string
	Production bool
}

// SocialConfig controls the scheduled-post publisher
type SocialConfig struct {
	PublishSpec string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("GOLEXCEL_HOST", "0.0.0.0"),
			Port:            getEnv("GOLEXCEL_PORT", "8080"),
			ReadTimeout:     getEnvDuration("GOLEXCEL_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("GOLEXCEL_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("GOLEXCEL_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("GOLEXCEL_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("GOLEXCEL_HEALTH_PORT", "9090"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("GOLEXCEL_DB_DRIVER", store.DriverSQLite),
			DSN:    getEnv("GOLEXCEL_DB_DSN", "golexcel.db"),
		},
		Session: SessionConfig{
			Secret:     getEnv("GOLEXCEL_SESSION_SECRET", ""),
			Production: getEnvBool("GOLEXCEL_PRODUCTION", false),
		},
		Social: SocialConfig{
			PublishSpec: getEnv("GOLEXCEL_SOCIAL_PUBLISH_SPEC", "@every 1m"),
		},
		LogLevel:       observability.ParseLogLevel(getEnv("GOLEXCEL_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("GOLEXCEL_METRICS_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("invalid database driver: %s (must be %s or %s)",
			c.Database.Driver, store.DriverSQLite, store.DriverPostgres)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	if c.Session.Production && c.Session.Secret == "" {
		return fmt.Errorf("session secret is required in production")
	}
	return nil
}

// SessionSecret returns the signing key bytes. Outside production an absent
// secret falls back to a fixed dev-only value.
func (c *Config) SessionSecret() []byte {
	if c.Session.Secret != "" {
		return []byte(c.Session.Secret)
	}
	return []byte("golexcel-dev-secret-do-not-use-in-production")
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.EqualFold(value, "true") || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
