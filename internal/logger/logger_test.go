package logger_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docanalyzer/internal/config"
	"docanalyzer/internal/logger"
)

func TestNew_Console(t *testing.T) {
	l, err := logger.New(config.LogConfig{Level: "info", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.False(t, l.Core().Enabled(-1), "debug should be disabled at info level")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestNew_InvalidFormat(t *testing.T) {
	_, err := logger.New(config.LogConfig{Level: "info", Format: "xml"})
	assert.Error(t, err)
}

func TestNew_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := logger.New(config.LogConfig{
		Level:      "debug",
		Format:     "console",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	})
	require.NoError(t, err)

	l.Info("hello from test")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "hello from test", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logger.OrNop(nil))
}
