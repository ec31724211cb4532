package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/bufwords/pkg/version"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestVersionCmd_Default(t *testing.T) {
	out := runCommand(t, "version")
	assert.Contains(t, out, version.Version)
}

func TestVersionCmd_Short(t *testing.T) {
	out := runCommand(t, "version", "--short")
	assert.Contains(t, out, version.Version)
}

func TestVersionCmd_JSON(t *testing.T) {
	out := runCommand(t, "version", "--json")

	var info version.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
}
