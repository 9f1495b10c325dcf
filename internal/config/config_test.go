package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test; an empty value would
// override the defaults.
func unsetEnv(t *testing.T, keys ...string) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

var configKeys = []string{
	"ECOLIFE_BACKEND", "ECOLIFE_SQLITE_PATH", "ECOLIFE_HTTP_ADDR", "ECOLIFE_AMQP_QUEUE",
	"ECOLIFE_LOG_FORMAT", "ECOLIFE_SHUTDOWN_TIMEOUT",
	"BACKEND", "SQLITE_PATH", "HTTP_ADDR", "AMQP_QUEUE", "LOG_FORMAT", "SHUTDOWN_TIMEOUT",
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, configKeys...)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "instance/ecolife_inventory.db", cfg.SQLitePath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "ecolife.inventory.events", cfg.AMQPQueue)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ECOLIFE_BACKEND", "redis")
	t.Setenv("ECOLIFE_REDIS_ADDR", "cache:6380")
	t.Setenv("ECOLIFE_REDIS_DB", "2")
	t.Setenv("ECOLIFE_LOG_FORMAT", "json")
	t.Setenv("ECOLIFE_SHUTDOWN_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_NormalizesCase(t *testing.T) {
	unsetEnv(t, configKeys...)
	t.Setenv("ECOLIFE_BACKEND", " Memory")
	t.Setenv("ECOLIFE_LOG_FORMAT", "JSON")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	unsetEnv(t, configKeys...)
	cfg, err := Load()
	require.NoError(t, err)

	bad := cfg
	bad.Backend = "postgres"
	assert.ErrorIs(t, bad.Validate(), ErrUnknownBackend)

	bad = cfg
	bad.Backend = "Memory"
	assert.ErrorIs(t, bad.Validate(), ErrUnknownBackend)
	bad.Normalize()
	assert.NoError(t, bad.Validate())

	bad = cfg
	bad.LogFormat = "xml"
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.ShutdownTimeout = 0
	assert.Error(t, bad.Validate())
}
