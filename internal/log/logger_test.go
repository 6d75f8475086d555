package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mr-Dark-debug/tracerange/internal/config"
)

func TestLogger_JSONLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "DEBUG")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		var data map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &data))
		assert.Contains(t, data, "msg")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "warn")

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatPretty, "INFO")

	logger.With("experiment", "exp 1").Info("range applied", "start", 10)

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "range applied")
	assert.Contains(t, out, `"exp 1"`)
	assert.Contains(t, out, "start=")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tracerange.log")
	cfg := config.DefaultConfig()
	cfg.LogFile = path
	cfg.LogFormat = "json"

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("to file")
	require.NoError(t, logger.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "to file")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	assert.NoError(t, l.Close())
}
