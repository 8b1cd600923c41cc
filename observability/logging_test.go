package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/warp/cancellation-rewards/config"
	"github.com/warp/cancellation-rewards/observability"
)

func TestNewLogger_Level(t *testing.T) {
	logger, err := observability.NewLogger(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := observability.NewLogger(config.LogConfig{Level: "chatty", Format: "console"})
	require.NoError(t, err)

	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
