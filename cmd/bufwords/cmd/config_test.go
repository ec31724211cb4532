package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/bufwords/internal/config"
)

func TestConfigInit_WritesTemplate(t *testing.T) {
	testEnv(t)

	out := runCommand(t, "config", "init")
	assert.Contains(t, out, "wrote")

	data, err := os.ReadFile(config.GetUserConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "prefix_cache_size")

	// The template must round-trip through the loader.
	_, err = config.Load()
	require.NoError(t, err)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	testEnv(t)

	runCommand(t, "config", "init")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"config", "init"})
	assert.Error(t, cmd.Execute())

	// --force overwrites.
	out := runCommand(t, "config", "init", "--force")
	assert.Contains(t, out, "wrote")
}

func TestConfigShow_PrintsEffectiveConfig(t *testing.T) {
	db := testEnv(t)

	out := runCommand(t, "--db", db, "config", "show")
	assert.Contains(t, out, "database:")
	assert.Contains(t, out, db)
}
