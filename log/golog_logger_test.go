package log

import (
	"bytes"
	"testing"

	"github.com/kataras/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGologLogger(t *testing.T) {
	logger := NewGologLogger(golog.New())

	assert.NotNil(t, logger)
	assert.Equal(t, LogLevelInfo, logger.GetLevel())
}

func TestGologLogger_LevelControl(t *testing.T) {
	logger := NewGologLogger(golog.New())

	logger.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, logger.GetLevel())

	logger.SetLevel(LogLevelError)
	assert.Equal(t, LogLevelError, logger.GetLevel())

	logger.SetLevel(LogLevelNone)
	assert.Equal(t, LogLevelNone, logger.GetLevel())
}

func TestGologLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LogLevelDebug)

	logger.Debug("stage %s", "generate")
	logger.Info("iteration %d", 2)
	logger.Warn("status %v", "INVALID")
	logger.Error("failed: %s", "boom")

	out := buf.String()
	assert.Contains(t, out, "stage generate")
	assert.Contains(t, out, "iteration 2")
	assert.Contains(t, out, "status INVALID")
	assert.Contains(t, out, "failed: boom")
}

func TestGologLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LogLevelWarn)

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warn")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible warn")

	buf.Reset()
	logger.SetLevel(LogLevelNone)
	logger.Error("nothing")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"", LogLevelInfo},
		{"warning", LogLevelWarn},
		{" error ", LogLevelError},
		{"off", LogLevelNone},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestPackageLogger(t *testing.T) {
	prev := GetDefaultLogger()
	defer SetDefaultLogger(prev)

	var buf bytes.Buffer
	SetOutput(&buf, LogLevelInfo)
	Debug("not shown")
	Info("run %s started", "r1")
	assert.Contains(t, buf.String(), "run r1 started")
	assert.NotContains(t, buf.String(), "not shown")

	SetDefaultLogger(&NoOpLogger{})
	Error("dropped")
	assert.NotContains(t, buf.String(), "dropped")

	assert.Equal(t, "WARN", LogLevelWarn.String())
}
