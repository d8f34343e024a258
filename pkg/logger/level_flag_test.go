package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestStringToLevel(t *testing.T) {
	t.Parallel()

	level, err := StringToLevel("debug", zapcore.InfoLevel)
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	level, err = StringToLevel("ERROR", zapcore.InfoLevel)
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, level)

	// Numeric verbosity maps to negative zap levels.
	level, err = StringToLevel("4", zapcore.InfoLevel)
	require.NoError(t, err)
	assert.Equal(t, zapcore.Level(-4), level)

	_, err = StringToLevel("bogus", zapcore.InfoLevel)
	require.Error(t, err)

	_, err = StringToLevel("-2", zapcore.InfoLevel)
	require.Error(t, err)
}
