package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, []string{"salt", "pepper", "oil", "water"}, cfg.Suggestion.PantryStaples)
	assert.False(t, cfg.HasAPIKey())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", "sk-test-key-123456")
	t.Setenv("OPENROUTER_MODEL", "test/model")
	t.Setenv("DATABASE_DSN", ":memory:")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("APP_QUEUE_WORKERS", "2")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.HasAPIKey())
	assert.Equal(t, "test/model", cfg.OpenRouter.Model)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2, cfg.Queue.Workers)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadConfig_RejectsUnknownDriver(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk-t...3456", MaskAPIKey("sk-test-key-123456"))
}

// chdir changes the working directory for the duration of the test and
// restores it afterwards (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
