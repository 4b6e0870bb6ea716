package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"regtrack/internal/config"
	"regtrack/internal/logger"
)

func TestNew_JSONInfo(t *testing.T) {
	l, err := logger.New(config.LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNew_ConsoleDebug(t *testing.T) {
	l, err := logger.New(config.LogConfig{Level: "DEBUG", Format: "console"})
	require.NoError(t, err)

	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
