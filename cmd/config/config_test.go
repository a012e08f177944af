package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.NotEmpty(t, cfg.DBURL)
	assert.Equal(t, 20*time.Second, cfg.IndexCacheTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "uploads", cfg.MediaRoot)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SECRET_KEY", "secret")
	t.Setenv("INDEX_CACHE_TTL", "1m")
	t.Setenv("DB_DEBUG", "true")

	cfg := Load()
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "postgres://example", cfg.DBURL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "secret", cfg.SecretKey)
	assert.Equal(t, time.Minute, cfg.IndexCacheTTL)
	assert.True(t, cfg.DBDebug)
}
