package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	t.Parallel()

	m := map[string]int{"a": 1, "b": 2, "c": 3}
	selected := Select(m, func(_ string, v int) bool { return v > 1 })
	assert.Equal(t, map[string]int{"b": 2, "c": 3}, selected)

	// The original map is not modified.
	assert.Len(t, m, 3)
}

func TestKeys(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Keys(map[string]int{}))
	assert.ElementsMatch(t, []string{"a", "b"}, Keys(map[string]int{"a": 1, "b": 2}))
}
