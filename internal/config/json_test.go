package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJson_AllFields(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"database_driver": "pgx",
		"database_dsn":    "postgres://u:p@db/scheduler",
		"tx_timeout":      "12s",
		"log_level":       "debug",
		"log_backend":     "zap",
		"otlp_endpoint":   "otel:4318",
	})

	c := defaults()
	require.NoError(t, parseJson(c, []string{"-config", path}))

	assert.Equal(t, "pgx", c.DatabaseDriver)
	assert.Equal(t, "postgres://u:p@db/scheduler", c.DatabaseDSN)
	assert.Equal(t, 12*time.Second, c.TxTimeout)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "zap", c.LogBackend)
	assert.Equal(t, "otel:4318", c.OTLPEndpoint)
}

func TestParseJson_PartialKeepsDefaults(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"log_backend": "zap"})

	c := defaults()
	require.NoError(t, parseJson(c, []string{"-c", path}))

	want := defaults()
	want.LogBackend = "zap"
	assert.Equal(t, want, c)
}

func TestParseJson_NoFlagIsNoop(t *testing.T) {
	c := defaults()
	require.NoError(t, parseJson(c, []string{"-d", "x"}))
	assert.Equal(t, defaults(), c)
}

func TestParseJson_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	err := parseJson(defaults(), []string{"-c", path})
	assert.ErrorContains(t, err, "parse config file")
}
