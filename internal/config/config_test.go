package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/forum")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 1024, cfg.DispatcherBuffer)
}

func TestLoad_RequiredFields(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/forum")
	t.Setenv("REDIS_URL", "")

	_, err = Load()
	assert.ErrorContains(t, err, "REDIS_URL")
}

func TestLoad_CacheTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/forum")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("REACTION_CACHE_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)

	t.Setenv("REACTION_CACHE_TTL", "not-a-duration")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("REACTION_CACHE_TTL", "-1h")
	_, err = Load()
	assert.ErrorContains(t, err, "positive")
}

func TestLoad_DispatcherBuffer(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/forum")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DISPATCHER_BUFFER", "16")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.DispatcherBuffer)

	t.Setenv("DISPATCHER_BUFFER", "0")
	_, err = Load()
	assert.ErrorContains(t, err, "at least 1")
}
