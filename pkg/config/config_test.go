package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golexcel/golexcel/pkg/store"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "9090", cfg.Server.HealthPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, store.DriverSQLite, cfg.Database.Driver)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.Session.Production)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GOLEXCEL_PORT", "9000")
	t.Setenv("GOLEXCEL_DB_DRIVER", "postgres")
	t.Setenv("GOLEXCEL_DB_DSN", "postgres://localhost/golexcel")
	t.Setenv("GOLEXCEL_READ_TIMEOUT", "5s")
	t.Setenv("GOLEXCEL_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, store.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080", HealthPort: "9090"},
			Database: DatabaseConfig{Driver: store.DriverSQLite, DSN: "golexcel.db"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("same ports rejected", func(t *testing.T) {
		cfg := base()
		cfg.Server.HealthPort = cfg.Server.Port
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown driver rejected", func(t *testing.T) {
		cfg := base()
		cfg.Database.Driver = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("production requires secret", func(t *testing.T) {
		cfg := base()
		cfg.Session.Production = true
		assert.Error(t, cfg.Validate())

		cfg.Session.Secret = "real-secret"
		assert.NoError(t, cfg.Validate())
	})
}

func TestSessionSecret_DevFallback(t *testing.T) {
	cfg := &Config{}
	assert.NotEmpty(t, cfg.SessionSecret())

	cfg.Session.Secret = "configured"
	assert.Equal(t, []byte("configured"), cfg.SessionSecret())
}
