package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"purchasepredict/config"
)

func TestNewWithWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	logger := NewWithWriter("json", level, &buf)

	logger.Debug("hidden")
	logger.Info("prediction served", zap.String("label", "Item bought"))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "prediction served", entry["msg"])
	assert.Equal(t, "Item bought", entry["label"])
	assert.Contains(t, entry, "time")
}

func TestSetLevelChangesRunningLogger(t *testing.T) {
	var buf bytes.Buffer
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	logger := NewWithWriter("console", level, &buf)

	logger.Debug("before")
	require.NoError(t, SetLevel(level, "debug"))
	logger.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	assert.Error(t, SetLevel(zap.NewAtomicLevel(), "loud"))
}

func TestNewWritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	logger, level, err := New(config.LogConfig{Level: "warn", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	assert.Equal(t, zap.WarnLevel, level.Level())

	logger.Warn("model slow")
	require.NoError(t, logger.Sync())
	assert.FileExists(t, path)
}
