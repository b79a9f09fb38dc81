package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("WZ_STR", "  value ")
	t.Setenv("WZ_INT", "42")
	t.Setenv("WZ_BAD_INT", "x")
	t.Setenv("WZ_BOOL", "true")
	t.Setenv("WZ_LIST", "a, b,,c ")

	assert.Equal(t, "value", Get("WZ_STR", "def"))
	assert.Equal(t, "def", Get("WZ_MISSING", "def"))
	assert.Equal(t, 42, GetInt("WZ_INT", 1))
	assert.Equal(t, 1, GetInt("WZ_BAD_INT", 1))
	assert.True(t, GetBool("WZ_BOOL", false))
	assert.False(t, GetBool("WZ_MISSING", false))
	assert.Equal(t, []string{"a", "b", "c"}, GetList("WZ_LIST"))
	assert.Nil(t, GetList("WZ_MISSING"))
}

func TestLoadEnv_ExistingVariablesWin(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("WZ_FROM_FILE=file\nWZ_PRESET=file\n"), 0o600))

	t.Setenv("ENV_FILE", file)
	t.Setenv("WZ_PRESET", "env")
	t.Cleanup(func() { os.Unsetenv("WZ_FROM_FILE") })

	LoadEnv()

	assert.Equal(t, "file", os.Getenv("WZ_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("WZ_PRESET"))
}
