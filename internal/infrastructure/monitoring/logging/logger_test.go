package logging

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerEmitsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core)

	logger.Info("fetch succeeded",
		String("url", "https://example.test"),
		Int("attempts", 2),
		Duration("elapsed", 150*time.Millisecond),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "fetch succeeded", entries[0].Message)

	fields := entries[0].ContextMap()
	assert.Equal(t, "https://example.test", fields["url"])
	assert.EqualValues(t, 2, fields["attempts"])
}

func TestLoggerWithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core).Named("fetcher").With(String("query", "aspirin"))

	logger.Warn("attempt failed", Err(errors.New("502")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "fetcher", entries[0].LoggerName)
	assert.Equal(t, "aspirin", entries[0].ContextMap()["query"])
	assert.Equal(t, "502", entries[0].ContextMap()["error"])
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	logger, err := NewLogger(Config{Level: "warn", Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	require.NotNil(t, logger)
}

func TestSetLevelAdjustsRunningLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := NewLogger(Config{Level: "info", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Debug("suppressed")
	SetLevel(logger, "debug")
	logger.Named("child").Debug("emitted")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "suppressed")
	assert.Contains(t, string(data), "emitted")
}

func TestSetLevelIgnoresStaticLoggers(t *testing.T) {
	SetLevel(NewNopLogger(), "debug")
	SetLevel(NewLoggerFromCore(zapcore.NewNopCore()), "debug")
}

func TestNewLoggerRejectsBadOutputPath(t *testing.T) {
	_, err := NewLogger(Config{Level: "info", Format: "json", OutputPaths: []string{"/nonexistent-dir/zz/log"}})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Debug("ignored")
	logger.Info("ignored")
	assert.NotNil(t, logger.With(String("k", "v")))
	assert.NotNil(t, logger.Named("x"))
}
