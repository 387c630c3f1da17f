package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "system", cfg.Audit.SystemActor)
	assert.Equal(t, 7, cfg.Forecast.DefaultHorizon)
	assert.Equal(t, "@every 1h", cfg.Forecast.WarmupCron)
	assert.Equal(t, 300*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("AUDIT_SYSTEM_ACTOR", "cron")
	t.Setenv("FORECAST_DEFAULT_HORIZON", "14")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "cron", cfg.Audit.SystemActor)
	assert.Equal(t, 14, cfg.Forecast.DefaultHorizon)
}

func TestLoad_InvalidHorizon(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FORECAST_DEFAULT_HORIZON", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
