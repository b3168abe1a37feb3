package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show or change the mods folder",
	Long: `Show the Mods and DisabledMods folders cmm is using.

Without a saved path, the game's default location for this platform is used.
On Linux that is the game's Steam Proton prefix when one can be found.

Examples:
  cmm path
  cmm path set ~/games/civ7/Mods
  cmm path reset`,
	Args: cobra.NoArgs,
	RunE: runPath,
}

var pathSetCmd = &cobra.Command{
	Use:   "set <dir>",
	Short: "Save a custom mods folder",
	Long: `Save a custom Mods folder. The folder must already exist. Disabled mods
are kept in a DisabledMods folder next to it.

Examples:
  cmm path set ~/games/civ7/Mods`,
	Args: cobra.ExactArgs(1),
	RunE: runPathSet,
}

var pathResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the custom mods folder and use the platform default",
	Args:  cobra.NoArgs,
	RunE:  runPathReset,
}

func init() {
	pathCmd.AddCommand(pathSetCmd)
	pathCmd.AddCommand(pathResetCmd)
	rootCmd.AddCommand(pathCmd)
}

// pathJSON is the output of `cmm path --json`
type pathJSON struct {
	Mods     string `json:"mods"`
	Disabled string `json:"disabled"`
	Custom   string `json:"custom,omitempty"`
	Settings string `json:"settings"`
}

func runPath(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	roots, err := service.Roots()
	if err != nil {
		return err
	}

	custom, err := service.CustomModsPath()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(pathJSON{
			Mods:     roots.Active,
			Disabled: roots.Disabled,
			Custom:   custom,
			Settings: service.SettingsPath(),
		}); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}

	fmt.Fprintf(out, "Mods:          %s\n", roots.Active)
	fmt.Fprintf(out, "Disabled mods: %s\n", roots.Disabled)

	switch {
	case modsPath != "":
		fmt.Fprintln(out, "(from --mods)")
	case custom != "":
		fmt.Fprintln(out, "(custom path; 'cmm path reset' restores the default)")
	default:
		fmt.Fprintln(out, "(platform default)")
	}

	if verbose {
		fmt.Fprintf(out, "Settings file: %s\n", service.SettingsPath())
	}

	return nil
}

func runPathSet(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	saved, err := service.SetCustomModsPath(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Mods folder set to %s\n", colorGreen("✓"), saved)
	return nil
}

func runPathReset(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	if err := service.ClearCustomModsPath(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Custom mods folder cleared\n", colorGreen("✓"))
	return nil
}
