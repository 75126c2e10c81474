package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"DEBUG":   logrus.DebugLevel,
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"ERROR":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestInitializeWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	Initialize("WARN", dir)

	Info("hidden below warn", nil)
	Warn("Maintenance refresh failed", map[string]interface{}{"task_id": "t1"})

	raw, err := os.ReadFile(filepath.Join(dir, "propmaint.log"))
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "Maintenance refresh failed")
	assert.Contains(t, out, "task_id=t1")
	assert.NotContains(t, out, "hidden below warn")
}

func TestEntryBuildersCarryContext(t *testing.T) {
	Initialize("INFO", "")
	var buf bytes.Buffer
	SetOutput(&buf)
	GetLogger().SetFormatter(&logrus.TextFormatter{DisableColors: true})

	WithTask("t9").Info("task patched")
	WithStore("notion", "query").Warn("retrying")
	WithError(errors.New("boom"), "watcher").Error("failed")

	out := buf.String()
	assert.Contains(t, out, "task_id=t9")
	assert.Contains(t, out, "component=maintenance_service")
	assert.Contains(t, out, "store=notion")
	assert.Contains(t, out, "error=boom")
	assert.NotContains(t, out, "stack_trace", "stack traces only at debug level")
}
