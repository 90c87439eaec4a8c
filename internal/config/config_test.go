package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: game-session-service
  env: dev
  port: 9090
logger:
  level: debug
  format: console
  env: dev
storage:
  backend: redis
redis:
  addr: localhost:6379
  db: 3
game:
  periods: 4
  period_length: 10
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 4, cfg.Game.Periods)
	assert.Equal(t, 10, cfg.Game.PeriodLength)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  env: dev
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "game-session-service", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 2, cfg.Game.Periods)
	assert.Equal(t, 20, cfg.Game.PeriodLength)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: memory
`)
	t.Setenv("APP_STORAGE_BACKEND", "postgres")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Backend)
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "storage:\n  backend: dynamo\n"},
		{"too many periods", "game:\n  periods: 9\n"},
		{"odd period length", "game:\n  period_length: 15\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation")
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
