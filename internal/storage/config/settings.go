package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CustomModsPathKey is the settings key holding the user-chosen Mods folder
const CustomModsPathKey = "customModsPath"

// SettingsFile is the name of the key/value settings document in the config directory
const SettingsFile = "settings.json"

// Settings is a flat key/value store backed by a JSON document.
// Every call re-reads the file so edits made elsewhere are picked up.
type Settings struct {
	path string
}

// OpenSettings returns the settings store for the given config directory.
// The file is created on first Set.
func OpenSettings(configDir string) *Settings {
	return &Settings{path: filepath.Join(configDir, SettingsFile)}
}

// Path returns the location of the settings file
func (s *Settings) Path() string {
	return s.path
}

// Get returns the string value stored under key, or "" when unset.
func (s *Settings) Get(key string) (string, error) {
	doc, err := s.read()
	if err != nil {
		return "", err
	}

	value, ok := doc[key].(string)
	if !ok {
		return "", nil
	}
	return value, nil
}

// Set stores value under key. An empty value removes the key.
// Keys written by other tools are preserved.
func (s *Settings) Set(key, value string) error {
	doc, err := s.read()
	if err != nil {
		return err
	}

	if value == "" {
		delete(doc, key)
	} else {
		doc[key] = value
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	return nil
}

func (s *Settings) read() (map[string]any, error) {
	doc := make(map[string]any)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}

	return doc, nil
}
