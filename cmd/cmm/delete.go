package main

import (
	"context"
	"fmt"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <folder>",
	Aliases: []string{"uninstall", "rm"},
	Short:   "Delete a mod",
	Long: `Permanently delete a mod folder from Mods or DisabledMods.

You are asked to confirm unless --yes is given.

Examples:
  cmm delete better-ui
  cmm delete --yes better-ui`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	folder := args[0]

	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	enabled, err := lookupMod(service, folder)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !confirm(out, fmt.Sprintf("Delete %s (%s)? This cannot be undone.", folder, stateLabel(enabled))) {
		fmt.Fprintln(out, "Aborted.")
		return domain.ErrCancelled
	}

	if err := service.Delete(context.Background(), folder, enabled); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Deleted %s\n", colorGreen("✓"), folder)
	return nil
}
