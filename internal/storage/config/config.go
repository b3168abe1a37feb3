package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"gopkg.in/yaml.v3"
)

// DefaultExtractTimeout bounds a single run of an external extraction tool
const DefaultExtractTimeout = 5 * time.Minute

// Config holds global application settings
type Config struct {
	LinkMethod    domain.LinkMethod `yaml:"-"`
	LinkMethodStr string            `yaml:"link_method"`
	Keybindings   string            `yaml:"keybindings"`
	Extract       ExtractConfig     `yaml:"extract"`
}

// ExtractConfig controls the archive extraction adapter
type ExtractConfig struct {
	TimeoutSeconds int          `yaml:"timeout_seconds,omitempty"`
	BuiltinZip     *bool        `yaml:"builtin_zip,omitempty"` // nil means enabled
	Tools          []ToolConfig `yaml:"tools,omitempty"`       // Replaces the platform's default tool table when set
}

// ToolConfig is one row of the extraction tool table.
// Command and Probe are argv lists; {archive} and {dest} are substituted in Command.
type ToolConfig struct {
	Name       string   `yaml:"name"`
	Probe      []string `yaml:"probe"`
	Command    []string `yaml:"command"`
	Extensions []string `yaml:"extensions,omitempty"` // Empty means any supported archive
	Quote      string   `yaml:"quote,omitempty"`      // "" or "powershell"
}

// Timeout returns the configured extraction timeout, or the default.
func (e ExtractConfig) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return DefaultExtractTimeout
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// BuiltinZipEnabled reports whether the built-in zip backend should be used as a last resort.
func (e ExtractConfig) BuiltinZipEnabled() bool {
	return e.BuiltinZip == nil || *e.BuiltinZip
}

// Load reads configuration from the given directory
func Load(configDir string) (*Config, error) {
	cfg := &Config{
		LinkMethod:  domain.LinkCopy,
		Keybindings: "vim",
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Convert string to LinkMethod
	if cfg.LinkMethodStr != "" {
		cfg.LinkMethod = domain.ParseLinkMethod(cfg.LinkMethodStr)
	}

	for i, tool := range cfg.Extract.Tools {
		if tool.Name == "" || len(tool.Command) == 0 {
			return nil, fmt.Errorf("parsing config: extract tool %d needs a name and a command", i+1)
		}
	}

	return cfg, nil
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	c.LinkMethodStr = c.LinkMethod.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
