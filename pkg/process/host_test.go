package process

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostIsLocal(t *testing.T) {
	t.Parallel()

	assert.True(t, Localhost.IsLocal())
	assert.True(t, Host(".").IsLocal())
	assert.True(t, Host("localhost").IsLocal())
	assert.True(t, Host("LOCALHOST").IsLocal())

	name, err := os.Hostname()
	require.NoError(t, err)
	assert.True(t, Host(name).IsLocal())

	assert.False(t, Host("some-other-machine.example.com").IsLocal())
}
