package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/d3ce1t/turtlelink/api"
	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ api.Config = (*Config)(nil)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, int64(0), cfg.WorkerID())
	assert.Equal(t, idgen.DefaultEpoch, cfg.Epoch())
	assert.Equal(t, 7, cfg.CodeLength())
	assert.Equal(t, 5, cfg.MaxCodeAttempts())
	assert.Equal(t, api.StoreKind_PEBBLE, cfg.Store())
	assert.Equal(t, []string{"127.0.0.1"}, cfg.DbAddress())
	assert.Equal(t, 4, cfg.DbCQLVersion())
	assert.Equal(t, 300, cfg.RedisTTLSeconds())
}

func TestLoadFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "turtlelink.yaml")
	data := []byte(`
worker_id: 3
datacenter_id: 1
code_length: 11
store: cassandra
db_address: [10.0.0.1, 10.0.0.2]
db_keyspace: links
redis_address: localhost:6379
`)
	require.NoError(t, os.WriteFile(file, data, 0644))

	cfg, err := LoadFromFile(file)
	require.NoError(t, err)

	assert.Equal(t, int64(3), cfg.WorkerID())
	assert.Equal(t, int64(1), cfg.DatacenterID())
	assert.Equal(t, 11, cfg.CodeLength())
	assert.Equal(t, api.StoreKind_CASSANDRA, cfg.Store())
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.DbAddress())
	assert.Equal(t, "links", cfg.DbKeyspace())
	assert.Equal(t, "localhost:6379", cfg.RedisAddress())
	// Defaults still apply to unset keys
	assert.Equal(t, idgen.DefaultEpoch, cfg.Epoch())
	assert.Equal(t, "./data", cfg.DataDir())
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("worker_id: [not, a, number]"))
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("TURTLE_WORKER_ID", "12")
	t.Setenv("TURTLE_DATACENTER_ID", "not-a-number")
	t.Setenv("TURTLE_STORE", "postgres")
	t.Setenv("TURTLE_DB_ADDRESS", "a, b,,c")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/links")

	FromEnv(cfg)

	assert.Equal(t, int64(12), cfg.WorkerID())
	assert.Equal(t, int64(0), cfg.DatacenterID())
	assert.Equal(t, api.StoreKind_POSTGRES, cfg.Store())
	assert.Equal(t, []string{"a", "b", "c"}, cfg.DbAddress())
	assert.Equal(t, "postgres://u:p@localhost:5432/links", cfg.DatabaseURL())
}

func TestExplicitZeroEpochIsKept(t *testing.T) {
	cfg, err := Parse([]byte("epoch: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), cfg.Epoch())

	cfg, err = Parse([]byte("worker_id: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, idgen.DefaultEpoch, cfg.Epoch())

	t.Setenv("TURTLE_EPOCH", "0")
	envCfg := Default()
	FromEnv(envCfg)
	assert.Equal(t, int64(0), envCfg.Epoch())
}

func TestFromEnvCodeAttemptsAndCacheTTL(t *testing.T) {
	t.Setenv("TURTLE_MAX_CODE_ATTEMPTS", "9")
	t.Setenv("TURTLE_REDIS_TTL_SECONDS", "60")

	cfg, err := Parse([]byte("max_code_attempts: 2\nredis_ttl_seconds: 10\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxCodeAttempts())
	assert.Equal(t, 10, cfg.RedisTTLSeconds())

	FromEnv(cfg)
	assert.Equal(t, 9, cfg.MaxCodeAttempts())
	assert.Equal(t, 60, cfg.RedisTTLSeconds())
}

func TestZeroValuesDefaultTheSameFromFileAndEnv(t *testing.T) {
	fileCfg, err := Parse([]byte("code_length: 0\nmax_code_attempts: 0\n"))
	require.NoError(t, err)

	t.Setenv("TURTLE_CODE_LENGTH", "0")
	t.Setenv("TURTLE_MAX_CODE_ATTEMPTS", "0")
	envCfg := Default()
	FromEnv(envCfg)

	assert.Equal(t, fileCfg.CodeLength(), envCfg.CodeLength())
	assert.Equal(t, fileCfg.MaxCodeAttempts(), envCfg.MaxCodeAttempts())
	assert.Equal(t, 7, envCfg.CodeLength())
	assert.Equal(t, 5, envCfg.MaxCodeAttempts())
}
