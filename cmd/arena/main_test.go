package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "arena dev\n", out.String())
}

func TestPitCommand(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	dir := t.TempDir()
	history := filepath.Join(dir, "history.txt")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"pit",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--episodes", "4",
		"--one", "first",
		"--two", "first",
		"--log-level", "error",
		"--progress=false",
		"--transcript", history,
	})

	require.NoError(t, root.Execute())
	assert.Equal(t, "first vs first (wins, losses, draws): (2, 2, 0)\n", out.String())

	data, err := os.ReadFile(history)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Playing Game #4")
}

func TestPitCommandReportsFaults(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("logging:\n  level: error\n"), 0644))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(""))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"pit",
		"--config", configFile,
		"--episodes", "2",
		"--one", "human",
		"--two", "first",
		"--progress=false",
		"--watch",
	})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "human vs first (wins, losses, draws): (0, 2, 0)\n")
	assert.Contains(t, out.String(), "faulted episodes: 2\n")
	assert.Contains(t, out.String(), "  episode 1 turn 1 seat 1: ")
}

func TestPitCommandRejectsBadFlags(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"pit", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "--game", "chess"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game.name")
}
