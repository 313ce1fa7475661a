package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "memory", cfg.Storage.Driver)
	require.Empty(t, cfg.Events.NATSURL)
	require.Equal(t, 5.0, cfg.RateLimit.PerSecond)
	require.Equal(t, 10, cfg.RateLimit.Burst)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, ":8080", cfg.Addr())
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
storage:
  driver: sqlite
  dsn: ":memory:"
events:
  nats_url: nats://localhost:4222
rate_limit:
  per_second: 2
  burst: 4
log:
  level: debug
  format: text
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Equal(t, ":memory:", cfg.Storage.DSN)
	require.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)
	require.Equal(t, 2.0, cfg.RateLimit.PerSecond)
	require.Equal(t, 4, cfg.RateLimit.Burst)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, ":9090", cfg.Addr())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
storage:
  driver: memory
`), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_DSN", "/tmp/auctions.db")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Equal(t, "/tmp/auctions.db", cfg.Storage.DSN)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_SQLiteDefaultDSN(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, "auction-house.db", cfg.Storage.DSN)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
