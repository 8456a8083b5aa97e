package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := fromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, LedgerSQLite, cfg.LedgerDriver)
	assert.Equal(t, defaultSQLiteDSN, cfg.DatabaseURL)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Nil(t, cfg.RandomSeed)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := fromEnv(envOf(map[string]string{
		"LEDGER_DRIVER":        "Postgres",
		"DATABASE_URL":         "postgres://localhost/swiss",
		"SERVER_PORT":          "9090",
		"RANDOM_SEED":          "-7",
		"LOG_LEVEL":            "debug",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,",
		"R2_ACCOUNT_ID":        "acc",
		"R2_ACCESS_KEY_ID":     "key",
		"R2_SECRET_ACCESS_KEY": "secret",
		"R2_BUCKET_NAME":       "bucket",
		"R2_PUBLIC_BASE_URL":   "https://cdn.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, LedgerPostgres, cfg.LedgerDriver)
	assert.Equal(t, 9090, cfg.ServerPort)
	require.NotNil(t, cfg.RandomSeed)
	assert.Equal(t, int64(-7), *cfg.RandomSeed)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"LEDGER_DRIVER": "mysql"}},
		{name: "postgres without url", env: map[string]string{"LEDGER_DRIVER": "postgres"}},
		{name: "port not a number", env: map[string]string{"SERVER_PORT": "http"}},
		{name: "port out of range", env: map[string]string{"SERVER_PORT": "70000"}},
		{name: "bad seed", env: map[string]string{"RANDOM_SEED": "lucky"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := fromEnv(envOf(tt.env))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
