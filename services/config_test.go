package services

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	config := LoadConfig()

	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, "", config.Database.URL)
	assert.True(t, config.Database.Seed)
	assert.Equal(t, "silent", config.Database.LogLevel)
	assert.Equal(t, 10, config.Database.MaxIdleConns)
	assert.Equal(t, 100, config.Database.MaxOpenConns)
	assert.Equal(t, 60, config.Cache.TTLMinutes)
	assert.Equal(t, int64(16777216), config.Upload.MaxBytes)
	assert.Equal(t, "", config.WebSocket.AllowedOrigins)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/insight")
	t.Setenv("DATABASE_SEED", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("REDIS_CACHE_TTL_MINUTES", "15")
	t.Setenv("UPLOAD_MAX_BYTES", "1048576")
	t.Setenv("WEBSOCKET_ALLOWED_ORIGINS", "http://localhost:5173")

	config := LoadConfig()

	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, "postgres://localhost/insight", config.Database.URL)
	assert.False(t, config.Database.Seed)
	assert.Equal(t, "redis://localhost:6379/0", config.Cache.RedisURL)
	assert.Equal(t, 15, config.Cache.TTLMinutes)
	assert.Equal(t, int64(1048576), config.Upload.MaxBytes)
	assert.Equal(t, "http://localhost:5173", config.WebSocket.AllowedOrigins)
}
