package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestZapLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf, slog.LevelDebug)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", "two")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err", "d", true)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "dbg", lines[0]["msg"])
	assert.EqualValues(t, 1, lines[0]["a"])
	assert.Equal(t, "two", lines[1]["b"])
	assert.Equal(t, "warn", lines[2]["level"])
	assert.Equal(t, true, lines[3]["d"])
}

func TestZapLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf, slog.LevelWarn)

	log.Info(context.Background(), "hidden")
	log.Warn(context.Background(), "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}

func TestZapLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf, slog.LevelInfo).With("command_id", "c-1")

	log.Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "c-1", lines[0]["command_id"])
	assert.Equal(t, "v", lines[0]["k"])
}
