package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/opsdesk/aws-agent/config"
)

func TestNewLoggerJSON(t *testing.T) {
	logger, err := NewLogger(config.ObservabilityConfig{LogLevel: "info", LogFormat: "json"})
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerConsole(t *testing.T) {
	logger, err := NewLogger(config.ObservabilityConfig{LogLevel: "debug", LogFormat: "console"})
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerDefaultFormat(t *testing.T) {
	logger, err := NewLogger(config.ObservabilityConfig{LogLevel: "warn"})
	require.NoError(t, err)
	defer func() { _ = logger.Sync() }()

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger(config.ObservabilityConfig{LogLevel: "loud", LogFormat: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewLoggerInvalidFormat(t *testing.T) {
	_, err := NewLogger(config.ObservabilityConfig{LogLevel: "info", LogFormat: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}
