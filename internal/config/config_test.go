package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Engine.HandSize)
	assert.Equal(t, 3, cfg.Engine.MaxEnergy)
	assert.Equal(t, 60, cfg.Engine.MacGuffinHP)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Storage.Redis.TTL)
	assert.Equal(t, ":50051", cfg.Server.GRPCAddr)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
  format: json
engine:
  hand_size: 6
  difficulty: 2
storage:
  driver: redis
  redis:
    addr: cache:6379
    ttl: 30m
`)
	t.Setenv("CURTAINCALL_ENGINE_MAX_ENERGY", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 6, cfg.Engine.HandSize)
	assert.Equal(t, 4, cfg.Engine.MaxEnergy)
	assert.Equal(t, 2, cfg.Engine.Difficulty)
	assert.Equal(t, "cache:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Storage.Redis.TTL)

	session := cfg.Engine.Session()
	assert.Equal(t, 6, session.HandSize)
	assert.Equal(t, 20, session.CharacterAHP)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	path := writeConfig(t, `
engine:
  hand_size: 0
  max_energy: -1
  difficulty: 99
storage:
  driver: etcd
`)

	_, err := Load(path)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "engine.hand_size")
	assert.Contains(t, msg, "engine.max_energy")
	assert.Contains(t, msg, "engine.difficulty")
	assert.Contains(t, msg, `unknown storage driver "etcd"`)
}

func TestValidatePostgresNeedsDSN(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: postgres\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "storage.postgres.dsn")
}
