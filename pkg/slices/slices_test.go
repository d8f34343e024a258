package slices

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	t.Parallel()

	ss := []string{"alpha", "beta", "gamma"}
	assert.True(t, Contains(ss, "beta"))
	assert.False(t, Contains(ss, "delta"))
	assert.False(t, Contains([]string(nil), "alpha"))
}

func TestMap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Map([]int(nil), func(i int) string { return strconv.Itoa(i) }))
	assert.Equal(t, []string{"1", "2", "3"}, Map([]int{1, 2, 3}, strconv.Itoa))
}

func TestSelect(t *testing.T) {
	t.Parallel()

	even := func(i int) bool { return i%2 == 0 }
	assert.Nil(t, Select([]int{1, 3, 5}, even))
	assert.Equal(t, []int{2, 4}, Select([]int{1, 2, 3, 4, 5}, even))
}
