// Package config provides configuration, settings and mods folder path handling.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/steam"
)

// ParseModsPath validates a user-chosen Mods folder and returns the cleaned path if valid.
// It returns an error if:
//   - The path is empty
//   - The path is not absolute
//   - The path contains parent directory traversal (..)
//   - The folder does not exist
//   - The path points to a file instead of a directory
func ParseModsPath(path string) (string, error) {
	if path == "" {
		return "", errors.New("mods path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		return "", errors.New("mods path must be absolute")
	}

	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", errors.New("mods path contains invalid traversal")
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("mods folder does not exist")
		}
		return "", err
	}

	if !info.IsDir() {
		return "", errors.New("mods path is a file, not a directory")
	}

	return filepath.Clean(path), nil
}

// DefaultRoots returns the game's own Mods and DisabledMods folders for the given
// platform and home directory. On Linux the folders live in the game's Steam
// Proton prefix, which exists only once the game has been started.
func DefaultRoots(goos, home string) (domain.Roots, error) {
	var base string
	switch goos {
	case "windows":
		base = filepath.Join(home, "AppData", "Local", "Firaxis Games", "Sid Meier's Civilization VII")
	case "darwin":
		base = filepath.Join(home, "Library", "Application Support", "Civilization VII")
	case "linux":
		dir, found := steam.FindProtonUserData(home, steam.Civ7AppID)
		if !found {
			return domain.Roots{}, fmt.Errorf("%w: no Steam Proton prefix for Civilization VII; set one with 'cmm path set <dir>'", domain.ErrNoDefaultRoots)
		}
		base = dir
	default:
		return domain.Roots{}, fmt.Errorf("%w: %s; set one with 'cmm path set <dir>'", domain.ErrNoDefaultRoots, goos)
	}

	return domain.Roots{
		Active:   filepath.Join(base, domain.ModsFolder),
		Disabled: filepath.Join(base, domain.DisabledModsFolder),
	}, nil
}
