// Package steam finds the game's Windows user-data folder inside a Steam Proton prefix.
package steam

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Civ7AppID is the Steam App ID of Sid Meier's Civilization VII
const Civ7AppID = "1295660"

// prefixUserData is the game's %LOCALAPPDATA% folder relative to compatdata/<appid>
var prefixUserData = filepath.Join("pfx", "drive_c", "users", "steamuser",
	"AppData", "Local", "Firaxis Games", "Sid Meier's Civilization VII")

// FindSteamRoots returns candidate Steam installation roots in search order.
// STEAM_ROOT, when set, is checked first.
func FindSteamRoots(home string) []string {
	var candidates []string
	if p := os.Getenv("STEAM_ROOT"); p != "" {
		candidates = append(candidates, p)
	}
	if home != "" {
		candidates = append(candidates,
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
		)
	}

	var out []string
	seen := make(map[string]bool)
	for _, p := range candidates {
		resolved, err := filepath.EvalSymlinks(p)
		if err != nil {
			continue
		}
		info, err := os.Stat(resolved)
		if err != nil || !info.IsDir() || seen[resolved] {
			continue
		}
		// ~/.steam/steam is usually a link to ~/.local/share/Steam
		seen[resolved] = true
		out = append(out, resolved)
	}
	return out
}

// GetLibraryPaths returns all Steam library paths of a Steam root (from libraryfolders.vdf).
func GetLibraryPaths(steamRoot string) ([]string, error) {
	vdfPath := filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf")
	data, err := os.ReadFile(vdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Single library: the steam root itself is the library
			return []string{steamRoot}, nil
		}
		return nil, fmt.Errorf("reading libraryfolders: %w", err)
	}
	root, err := ParseVDF(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing libraryfolders: %w", err)
	}
	paths := libraryPaths(root)
	if len(paths) == 0 {
		return []string{steamRoot}, nil
	}
	return paths, nil
}

// installedIn reports whether a library holds a manifest for appID.
func installedIn(library, appID string) bool {
	data, err := os.ReadFile(filepath.Join(library, "steamapps", "appmanifest_"+appID+".acf"))
	if err != nil {
		return false
	}
	m, err := ParseAppManifest(string(data))
	return err == nil && m.AppID == appID
}

// FindProtonUserData returns the game's user-data folder inside the Proton
// prefix of appID, searching every Steam library under home. Libraries that
// hold the game's manifest are searched first. found is false when no prefix
// has the folder yet (the game has not been started under Proton).
func FindProtonUserData(home, appID string) (dir string, found bool) {
	var preferred, others []string
	for _, steamRoot := range FindSteamRoots(home) {
		libraries, err := GetLibraryPaths(steamRoot)
		if err != nil {
			continue
		}
		for _, lib := range libraries {
			if installedIn(lib, appID) {
				preferred = append(preferred, lib)
			} else {
				others = append(others, lib)
			}
		}
	}

	for _, lib := range append(preferred, others...) {
		candidate := filepath.Join(lib, "steamapps", "compatdata", appID, prefixUserData)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
