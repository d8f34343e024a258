package process

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartConfigValidate(t *testing.T) {
	t.Parallel()

	var nilConfig *StartConfig
	assert.ErrorIs(t, nilConfig.validate(), ErrInvalidArgument)
	assert.ErrorIs(t, (&StartConfig{}).validate(), ErrInvalidArgument)
	assert.NoError(t, NewStartConfig("sleep", "1").validate())
}

func TestStartConfigEnvironment(t *testing.T) {
	// No t.Parallel(): t.Setenv does not allow it.
	t.Setenv("CONFIG_TEST_INHERITED", "from-parent")

	config := NewStartConfig("whatever")
	config.Env = []string{"CONFIG_TEST_EXTRA=added"}

	env, err := config.environment()
	require.NoError(t, err)
	assert.Contains(t, env, "CONFIG_TEST_INHERITED=from-parent")
	assert.Contains(t, env, "CONFIG_TEST_EXTRA=added")

	config.InheritEnv = false
	env, err = config.environment()
	require.NoError(t, err)
	assert.NotContains(t, env, "CONFIG_TEST_INHERITED=from-parent")
	assert.Equal(t, []string{"CONFIG_TEST_EXTRA=added"}, env)
}

func TestStartConfigEnvFile(t *testing.T) {
	t.Parallel()

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("FROM_FILE=file-value\nOVERRIDDEN=file-value\n"), 0o600))

	config := NewStartConfig("whatever")
	config.InheritEnv = false
	config.EnvFile = envFile
	config.Env = []string{"OVERRIDDEN=env-wins"}

	env, err := config.environment()
	require.NoError(t, err)
	assert.Contains(t, env, "FROM_FILE=file-value")
	// Explicit Env entries are appended last, so they win over file entries.
	assert.Equal(t, "OVERRIDDEN=env-wins", env[len(env)-1])

	config.EnvFile = filepath.Join(t.TempDir(), "does-not-exist.env")
	_, err = config.environment()
	assert.Error(t, err)
}

func TestStartConfigCloneIsolation(t *testing.T) {
	t.Parallel()

	original := NewStartConfig("prog", "a", "b")
	original.Env = []string{"X=1"}

	copied := original.clone()
	copied.Args[0] = "changed"
	copied.Env[0] = "X=2"

	assert.Equal(t, "a", original.Args[0])
	assert.Equal(t, "X=1", original.Env[0])
}
