package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCheckCommand(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9001\"\nai:\n  provider: anthropic\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config-check", "--config", path})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Port: 9001")
	assert.Contains(t, out.String(), "Provider: anthropic")
	assert.Contains(t, out.String(), "configuration is valid")
}

func TestConfigCheckCommand_Invalid(t *testing.T) {
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grouping:\n  similarity_threshold: 3\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config-check", "--config", path})
	assert.Error(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "similarity threshold")
}
