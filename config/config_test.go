package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("test environment skips required fields", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "test")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("ADMIN_API_KEY", "")

		cfg, err := load()
		require.NoError(t, err)
		assert.Equal(t, "test", cfg.Environment)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "raffle.notifications", cfg.NotificationSubject)
		assert.Equal(t, time.Hour, cfg.ResolveIdleBackoff)
		assert.Equal(t, 30*time.Second, cfg.ResolveRetryDelay)
		assert.False(t, cfg.NotificationRelayEnabled())
		assert.False(t, cfg.AnnouncerEnabled())
	})

	t.Run("production requires database url", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("ADMIN_API_KEY", "secret")

		_, err := load()
		assert.ErrorContains(t, err, "DATABASE_URL is required")
	})

	t.Run("production requires admin key", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATABASE_URL", "postgres://localhost:5432")
		t.Setenv("ADMIN_API_KEY", "")

		_, err := load()
		assert.ErrorContains(t, err, "ADMIN_API_KEY is required")
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("DATABASE_URL", "postgres://localhost:5432")
		t.Setenv("DATABASE_NAME", "raffle")
		t.Setenv("ADMIN_API_KEY", "secret")
		t.Setenv("NATS_SERVERS", "nats://localhost:4222")
		t.Setenv("AUTO_RESOLVE_DRAWS", "true")
		t.Setenv("RESOLVE_IDLE_BACKOFF_SECONDS", "30")
		t.Setenv("RESOLVE_RETRY_SECONDS", "5")
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("DISCORD_CHANNEL_ID", "123")

		cfg, err := load()
		require.NoError(t, err)
		assert.True(t, cfg.AutoResolveDraws)
		assert.Equal(t, 30*time.Second, cfg.ResolveIdleBackoff)
		assert.Equal(t, 5*time.Second, cfg.ResolveRetryDelay)
		assert.True(t, cfg.NotificationRelayEnabled())
		assert.True(t, cfg.AnnouncerEnabled())
		assert.Equal(t, "postgres://localhost:5432/raffle?sslmode=disable", cfg.GetDatabaseURL())
	})
}

func TestSetTestConfig(t *testing.T) {
	t.Cleanup(ResetConfig)

	cfg := NewTestConfig()
	SetTestConfig(cfg)
	assert.Same(t, cfg, Get())
}
