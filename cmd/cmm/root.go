package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DonovanMods/civ-mod-manager/internal/core"
	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	// Global flags
	configDir  string
	modsPath   string
	verbose    bool
	jsonOutput bool
	noColor    bool
	assumeYes  bool
)

// stdin is where confirmation prompts read answers from
var stdin = bufio.NewReader(os.Stdin)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cmm",
	Short: "Civilization VII Mod Manager - install, enable and remove mods",
	Long: `cmm manages Civilization VII mods by moving mod folders between the game's
Mods folder and a sibling DisabledMods folder. Mods can be installed from
folders or from .zip, .7z, .rar and .tar.gz archives.

Run 'cmm tui' for the interactive interface, or use subcommands directly.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/cmm)")
	rootCmd.PersistentFlags().StringVar(&modsPath, "mods", "", "mods folder for this run (overrides the saved path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (list, install)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "answer yes to overwrite and delete prompts")
}

// colorEnabled returns true if colored output should be used (respects --no-color and NO_COLOR env).
// NO_COLOR: if set (any value), color is disabled per https://no-color.org
func colorEnabled() bool {
	if noColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return true
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

func colorGreen(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiGreen + s + ansiReset
}

func colorRed(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiRed + s + ansiReset
}

func colorYellow(s string) string {
	if !colorEnabled() {
		return s
	}
	return ansiYellow + s + ansiReset
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = user cancelled.
// When --json is set and an error occurs, prints {"error":"..."} to stdout before exiting.
// Cancellation exits with code 2 without printing JSON, since it is a user action, not an error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stdout, os.Stderr, err))
	}
}

// reportedError marks an error whose details the command already printed.
// Only its exit code is left to report.
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// reportError prints err the way Execute does and returns the exit code.
func reportError(stdout, stderr io.Writer, err error) int {
	if errors.Is(err, domain.ErrCancelled) {
		return 2
	}
	var reported reportedError
	if errors.As(err, &reported) {
		return 1
	}
	if jsonOutput {
		fmt.Fprintf(stdout, `{"error":%q}`+"\n", err.Error())
	} else {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

// newLogger builds the diagnostics logger: debug with --verbose, warnings otherwise.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// initService creates and initializes the core service
func initService() (*core.Service, error) {
	cfg, err := getServiceConfig()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.ConfigDir, 0755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	return core.NewService(cfg)
}

// getServiceConfig returns the service configuration with defaults.
// Returns an error if UserHomeDir fails and defaults are needed.
func getServiceConfig() (core.ServiceConfig, error) {
	cfg := core.ServiceConfig{
		ConfigDir: configDir,
		ModsPath:  modsPath,
		Logger:    newLogger(os.Stderr),
	}

	if cfg.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return core.ServiceConfig{}, fmt.Errorf("home directory: %w", err)
		}
		cfg.ConfigDir = filepath.Join(homeDir, ".config", "cmm")
	}

	if cfg.ModsPath != "" {
		abs, err := filepath.Abs(cfg.ModsPath)
		if err != nil {
			return core.ServiceConfig{}, fmt.Errorf("resolving --mods: %w", err)
		}
		cfg.ModsPath = abs
	}

	return cfg, nil
}
