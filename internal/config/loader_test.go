package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Aidin1998/finalex-ids/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadConfig(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:orderlistid.db", cfg.Database.DSN)
	assert.Equal(t, 3600, cfg.Database.ConnMaxLifetime)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "OL", cfg.Identifiers.Prefix)
	assert.Equal(t, 3, cfg.Identifiers.MaxIssueAttempts)
	assert.Equal(t, registry.Config{MaxHandles: 0}, cfg.RegistryOptions())
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 300, cfg.Redis.TTL)
	assert.Empty(t, cfg.Metrics.Listen)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
environment: staging
logging:
  level: debug
  format: console
database:
  driver: postgres
  dsn: postgres://ids@localhost/ids
  max_open_conns: 50
redis:
  enabled: true
  address: cache:6379
  db: 2
identifiers:
  prefix: RISK
  max_issue_attempts: 5
registry:
  max_handles: 1024
tracing:
  enabled: true
metrics:
  listen: 127.0.0.1:9464
  textfile: /var/lib/node_exporter/orderlistid.prom
`)

	cfg, err := LoadConfig(zaptest.NewLogger(t), path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://ids@localhost/ids", cfg.Database.DSN)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2, cfg.Database.MaxIdleConns)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Address)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "RISK", cfg.Identifiers.Prefix)
	assert.Equal(t, 5, cfg.Identifiers.MaxIssueAttempts)
	assert.Equal(t, 1024, cfg.RegistryOptions().MaxHandles)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Listen)
	assert.Equal(t, "/var/lib/node_exporter/orderlistid.prom", cfg.Metrics.Textfile)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
identifiers:
  prefix: FILE
`)
	t.Setenv("FINALEX_IDENTIFIERS_PREFIX", "ENV")
	t.Setenv("FINALEX_REGISTRY_MAX_HANDLES", "8")

	cfg, err := LoadConfig(zaptest.NewLogger(t), path)
	require.NoError(t, err)

	assert.Equal(t, "ENV", cfg.Identifiers.Prefix)
	assert.Equal(t, 8, cfg.Registry.MaxHandles)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown environment", body: "environment: qa\n"},
		{name: "unknown driver", body: "database:\n  driver: mysql\n"},
		{name: "bad log level", body: "logging:\n  level: chatty\n"},
		{name: "zero attempts", body: "identifiers:\n  max_issue_attempts: 0\n"},
		{name: "negative handles", body: "registry:\n  max_handles: -1\n"},
		{name: "long prefix", body: "identifiers:\n  prefix: ABCDEFGHIJKLMNOPQ\n"},
		{name: "production on sqlite", body: "environment: production\n"},
		{name: "zero redis ttl", body: "redis:\n  ttl: 0\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(zaptest.NewLogger(t), writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := LoadConfig(zaptest.NewLogger(t), writeConfig(t, "environment: [unterminated\n"))
	assert.Error(t, err)
}

func TestValidate_Overrides(t *testing.T) {
	cfg, err := LoadConfig(zaptest.NewLogger(t), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	cfg.Logging.Level = "verbose"
	assert.Error(t, Validate(cfg))

	cfg.Logging.Level = "debug"
	assert.NoError(t, Validate(cfg))
}
