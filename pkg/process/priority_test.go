package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityRoundTrip(t *testing.T) {
	t.Parallel()

	for _, level := range Levels() {
		native, err := NativePriority(level)
		require.NoError(t, err, "level %s", level)
		assert.Equal(t, level, PriorityFromNative(native), "level %s (native %d)", level, native)
	}
}

func TestPriorityInvalidLevel(t *testing.T) {
	t.Parallel()

	for _, bad := range []PriorityLevel{PriorityLevel(-1), PriorityLevel(99)} {
		_, err := NativePriority(bad)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestPriorityString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "normal", PriorityNormal.String())
	assert.Equal(t, "real-time", PriorityRealTime.String())
	assert.Equal(t, "priority(99)", PriorityLevel(99).String())
}
