package config_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tennis-web/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TENNIS_API_URL", "https://tennis.example.com/api/")
	path := writeConfig(t, `
api:
  base_url: ${TENNIS_API_URL}
session:
  storage: Redis
redis:
  addr: cache:6379
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://tennis.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 0, cfg.API.RetryMax)
	assert.Equal(t, config.StorageRedis, cfg.Session.Storage)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "tennis_session", cfg.Session.CookieName)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	path := writeConfig(t, "session:\n  storage: cassandra\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file falls back", func(t *testing.T) {
		cfg, found, err := config.LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, config.StorageMemory, cfg.Session.Storage)
	})

	t.Run("invalid storage is rejected", func(t *testing.T) {
		path := writeConfig(t, "session:\n  storage: redsi\n")
		cfg, _, err := config.LoadOrDefault(path)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), `unknown session storage "redsi"`)
	})

	t.Run("invalid base url is rejected", func(t *testing.T) {
		path := writeConfig(t, "api:\n  base_url: localhost:8081\n")
		_, _, err := config.LoadOrDefault(path)
		assert.Error(t, err)
	})

	t.Run("valid file is used", func(t *testing.T) {
		path := writeConfig(t, "session:\n  storage: redis\n")
		cfg, found, err := config.LoadOrDefault(path)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, config.StorageRedis, cfg.Session.Storage)
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, config.StorageMemory, cfg.Session.Storage)
	assert.True(t, cfg.Sweeper.Enabled)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "postgres://:@localhost:5432/?sslmode=disable", cfg.Postgres.ConnectionString())
}
