package logging

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLogger(t *testing.T) {
	err := InitLogger()
	require.NoError(t, err)
	assert.NotNil(t, Logger)
	assert.NotNil(t, Logger.logger)
}

func TestInitLogger_WithLogLevel(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Unsetenv("LOG_LEVEL")

	require.NoError(t, InitLogger())
	assert.True(t, Logger.Unwrap().Core().Enabled(zap.DebugLevel))
}

func TestInitLogger_WithInvalidLogLevel(t *testing.T) {
	os.Setenv("LOG_LEVEL", "shouting")
	defer os.Unsetenv("LOG_LEVEL")

	require.NoError(t, InitLogger())
	assert.False(t, Logger.Unwrap().Core().Enabled(zap.DebugLevel))
}

func TestSafeLogger_WritesThroughToZap(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := New(zap.New(core))

	logger.Debug("debug line")
	logger.Info("info line", zap.String("district", "Kottayam"))
	logger.Warn("warn line")
	logger.Error("error line")

	require.Equal(t, 4, logs.Len())
	entry := logs.All()[1]
	assert.Equal(t, "info line", entry.Message)
	assert.Equal(t, "Kottayam", entry.ContextMap()["district"])
}

func TestSafeLogger_NilLogger(t *testing.T) {
	logger := &SafeLogger{logger: nil}

	logger.Info("test")
	logger.Warn("test")
	logger.Debug("test")
	logger.Error("test")
}

func TestSafeLogger_NilSafeLogger(t *testing.T) {
	var logger *SafeLogger

	logger.Info("test")
	logger.Warn("test")
	logger.Debug("test")
	logger.Error("test")
	logger.Sync()
}

func TestSafeLogger_With(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := New(zap.New(core))

	child := logger.With(zap.String("user_id", "u-1")).Named("profile")
	child.Info("created")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "profile", logs.All()[0].LoggerName)
	assert.Equal(t, "u-1", logs.All()[0].ContextMap()["user_id"])
}

func TestSafeLogger_With_NilVariants(t *testing.T) {
	empty := &SafeLogger{logger: nil}
	assert.Equal(t, empty, empty.With(zap.String("key", "value")))

	var nilLogger *SafeLogger
	assert.Nil(t, nilLogger.With(zap.String("key", "value")))
}

func TestSafeLogger_Unwrap(t *testing.T) {
	zapLogger := zap.NewNop()
	assert.Equal(t, zapLogger, New(zapLogger).Unwrap())

	var nilLogger *SafeLogger
	assert.NotNil(t, nilLogger.Unwrap())
}

func TestGlobalLogger_UsableBeforeInit(t *testing.T) {
	assert.NotNil(t, Logger)
	Logger.Info("test message")
}
