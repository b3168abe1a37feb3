package main

import (
	"context"
	"fmt"

	"github.com/DonovanMods/civ-mod-manager/internal/core"
	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <folder>",
	Short: "Enable a disabled mod or disable an enabled one",
	Long: `Move a mod folder between the Mods and DisabledMods folders.

The mod is identified by its folder name, as shown by 'cmm list'.

Examples:
  cmm toggle better-ui`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

var enableCmd = &cobra.Command{
	Use:   "enable <folder>",
	Short: "Enable a mod",
	Long: `Move a mod folder from DisabledMods into Mods.
Enabling a mod that is already enabled does nothing.

Examples:
  cmm enable better-ui`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetEnabled(cmd, args[0], true)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <folder>",
	Short: "Disable a mod",
	Long: `Move a mod folder from Mods into DisabledMods.
Disabling a mod that is already disabled does nothing.

Examples:
  cmm disable better-ui`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetEnabled(cmd, args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	folder := args[0]

	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	enabled, err := lookupMod(service, folder)
	if err != nil {
		return err
	}

	if err := service.Toggle(context.Background(), folder, enabled); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", colorGreen("✓"), folder, stateLabel(!enabled))
	return nil
}

func runSetEnabled(cmd *cobra.Command, folder string, enable bool) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	ctx := context.Background()
	if enable {
		err = service.Enable(ctx, folder)
	} else {
		err = service.Disable(ctx, folder)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is %s\n", colorGreen("✓"), folder, stateLabel(enable))
	return nil
}

// lookupMod reports which folder holds the named mod
func lookupMod(service *core.Service, folder string) (bool, error) {
	enabled, found, err := service.Lookup(folder)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("%w: %s", domain.ErrNotFound, folder)
	}
	return enabled, nil
}
