package main

import (
	"fmt"

	"github.com/DonovanMods/civ-mod-manager/internal/tui"

	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive interface",
	Long: `Open a terminal interface listing installed mods.

Keys: space enables/disables, d deletes, i installs from a path,
r rescans, 2 opens settings, ? shows all keys.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	return tui.Run(service)
}
