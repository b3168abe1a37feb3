package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed mods",
	Long: `List the mods found in the Mods and DisabledMods folders.

Enabled mods are listed first, then disabled ones, each sorted by name.

Examples:
  cmm list
  cmm list --json
  cmm list --mods /games/civ7/Mods`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// listModJSON is one mod in `cmm list --json`
type listModJSON struct {
	Folder            string `json:"folder"`
	ID                string `json:"id"`
	Name              string `json:"name"`
	Version           string `json:"version"`
	Description       string `json:"description,omitempty"`
	Authors           string `json:"authors,omitempty"`
	Enabled           bool   `json:"enabled"`
	AffectsSavedGames bool   `json:"affects_saved_games"`
	Icon              string `json:"icon"`
	Subfolder         string `json:"subfolder,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	roots, err := service.Roots()
	if err != nil {
		return err
	}

	mods, err := service.Scan(context.Background())
	if err != nil {
		return fmt.Errorf("scanning mods: %w", err)
	}

	out := cmd.OutOrStdout()

	if jsonOutput {
		items := make([]listModJSON, 0, len(mods))
		for _, mod := range mods {
			items = append(items, toListJSON(mod))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}

	if verbose {
		fmt.Fprintf(out, "Mods folder: %s\n", roots.Active)
		fmt.Fprintf(out, "Disabled folder: %s\n\n", roots.Disabled)
	}

	if len(mods) == 0 {
		fmt.Fprintln(out, "No mods installed.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FOLDER\tNAME\tVERSION\tSTATE\tSAVES")
	fmt.Fprintln(w, "------\t----\t-------\t-----\t-----")

	var enabled int
	for _, mod := range mods {
		state := colorGreen("enabled")
		if mod.Enabled {
			enabled++
		} else {
			state = colorYellow("disabled")
		}
		saves := ""
		if mod.AffectsSavedGames {
			saves = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			truncate(mod.Folder, 30),
			truncate(mod.Name, 40),
			mod.Version,
			state,
			saves,
		)
	}
	w.Flush()

	if verbose {
		fmt.Fprintf(out, "\nTotal: %d mod(s), %d enabled\n", len(mods), enabled)
	}

	return nil
}

func toListJSON(mod domain.InstalledMod) listModJSON {
	return listModJSON{
		Folder:            mod.Folder,
		ID:                mod.ID,
		Name:              mod.Name,
		Version:           mod.Version,
		Description:       mod.Description,
		Authors:           mod.Authors,
		Enabled:           mod.Enabled,
		AffectsSavedGames: mod.AffectsSavedGames,
		Icon:              mod.IconPath,
		Subfolder:         mod.SubfolderName,
	}
}
