package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	return path
}

func TestLoad_FileWithDefaults(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
database:
  host: db.internal
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset sections pick up defaults.
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValueRejected(t *testing.T) {
	path := writeTempConfig(t, `
server:
  mode: turbo
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestLoadFromEnv_Override(t *testing.T) {
	t.Setenv("CLAIMLENS_SERVER_PORT", "8181")
	t.Setenv("CLAIMLENS_DATABASE_HOST", "envhost")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "envhost", cfg.Database.Host)
}

func TestWatch_DeliversReloadedConfig(t *testing.T) {
	path := writeTempConfig(t, `
log:
  level: info
`)

	reloaded := make(chan *Config, 1)
	Watch(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
`), 0o600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "debug", cfg.Log.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestMustLoad_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
