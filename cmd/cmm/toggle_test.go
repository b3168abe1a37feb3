package main

import (
	"path/filepath"
	"testing"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleCmd_Structure(t *testing.T) {
	for _, cmd := range []string{toggleCmd.Use, enableCmd.Use, disableCmd.Use} {
		assert.Contains(t, cmd, "<folder>")
	}
}

func TestToggleCmd_MovesBothWays(t *testing.T) {
	mods := resetFlags(t)
	disabled := filepath.Join(filepath.Dir(mods), domain.DisabledModsFolder)
	writeMod(t, filepath.Join(mods, "better-ui"), "better-ui", "1.0")

	out, err := execute(toggleCmd, "toggle", "better-ui")
	require.NoError(t, err)
	assert.Contains(t, out, "better-ui is now disabled")
	assert.DirExists(t, filepath.Join(disabled, "better-ui"))
	assert.NoDirExists(t, filepath.Join(mods, "better-ui"))

	out, err = execute(toggleCmd, "toggle", "better-ui")
	require.NoError(t, err)
	assert.Contains(t, out, "better-ui is now enabled")
	assert.DirExists(t, filepath.Join(mods, "better-ui"))
	assert.NoDirExists(t, filepath.Join(disabled, "better-ui"))
}

func TestToggleCmd_NotFound(t *testing.T) {
	resetFlags(t)

	_, err := execute(toggleCmd, "toggle", "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnableDisableCmd(t *testing.T) {
	mods := resetFlags(t)
	disabled := filepath.Join(filepath.Dir(mods), domain.DisabledModsFolder)
	writeMod(t, filepath.Join(mods, "better-ui"), "better-ui", "1.0")

	// Already enabled: nothing moves
	out, err := execute(enableCmd, "enable", "better-ui")
	require.NoError(t, err)
	assert.Contains(t, out, "better-ui is enabled")
	assert.DirExists(t, filepath.Join(mods, "better-ui"))

	out, err = execute(disableCmd, "disable", "better-ui")
	require.NoError(t, err)
	assert.Contains(t, out, "better-ui is disabled")
	assert.DirExists(t, filepath.Join(disabled, "better-ui"))
}

func TestToggleCmd_InvalidName(t *testing.T) {
	resetFlags(t)

	_, err := execute(disableCmd, "disable", "../escape")
	require.ErrorIs(t, err, domain.ErrInvalidName)
}
