package osutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithin(t *testing.T) {
	t.Parallel()

	now := time.Now()

	assert.True(t, Within(now, now, 0))
	assert.True(t, Within(now, now.Add(2*time.Millisecond), 2*time.Millisecond))
	assert.True(t, Within(now.Add(2*time.Millisecond), now, 2*time.Millisecond))
	assert.False(t, Within(now, now.Add(3*time.Millisecond), 2*time.Millisecond))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		duration time.Duration
		expected string
	}{
		{0, "< 1ms"},
		{500 * time.Microsecond, "< 1ms"},
		{15 * time.Millisecond, "0.015 seconds"},
		{3*time.Second + 250*time.Millisecond, "3.250 seconds"},
		{2*time.Minute + 5*time.Second, "2 minutes 5.000 seconds"},
		{26*time.Hour + 3*time.Minute, "1 days 2 hours 3 minutes"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, FormatDuration(tc.duration), "duration %v", tc.duration)
	}
}
