package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/config"
)

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "careerpath.log")

	logger, err := New(config.LogConfig{Level: "info", Format: "json", File: path})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("progress saved", zap.String("component", "persist"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "progress saved", entry["msg"])
	assert.Equal(t, "persist", entry["component"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "ts")
}

func TestNew_ConsoleDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")

	logger, err := New(config.LogConfig{Level: "DEBUG", Format: "console", File: path})
	require.NoError(t, err)
	logger.Debug("visible")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestForTUI_DefaultsToStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	logger, err := ForTUI(config.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	logger.Info("tui started")
	require.NoError(t, logger.Sync())

	_, err = os.Stat(config.DefaultLogPath())
	assert.NoError(t, err)
}

func TestSecret(t *testing.T) {
	assert.Equal(t, "******cdef", Secret("k", "gsk-abcdef").String)
	assert.Equal(t, "***", Secret("k", "abc").String)
	assert.Equal(t, "", Mask(""))
}
