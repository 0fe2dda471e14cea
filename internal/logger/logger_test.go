package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Debug(t *testing.T) {
	log, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, log)

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	log.Debug("test message")
}

func TestNew_Production(t *testing.T) {
	log, err := New(false)
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.NotNil(t, Must(true))
	})
}

func TestSync_Nop(t *testing.T) {
	assert.NoError(t, Sync(zap.NewNop()))
}
