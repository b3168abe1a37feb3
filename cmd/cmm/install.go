package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DonovanMods/civ-mod-manager/internal/core"
	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <path>...",
	Short: "Install mods from folders or archives",
	Long: `Install one or more mods into the Mods folder.

Each path may be a mod folder or a .zip, .7z, .rar or .tar.gz archive. The
folder holding the .modinfo file (or its parent, when the descriptor sits one
level down) is copied into the Mods folder under its own name. Archives are
extracted with an installed tool (7-Zip, unzip, tar, WinRAR, PowerShell) or
the built-in zip reader.

If a mod with the same folder name is already installed you are asked before
it is replaced. Use --yes to replace without asking.

Examples:
  cmm install ~/Downloads/better-ui.zip
  cmm install ~/Downloads/map-pack ~/Downloads/leaders.7z
  cmm install --yes ~/Downloads/better-ui-1.1.zip`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

// installJSON is one source in `cmm install --json`
type installJSON struct {
	Source   string `json:"source"`
	Folder   string `json:"folder,omitempty"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
	Replaced bool   `json:"replaced,omitempty"`
	Files    int    `json:"files,omitempty"`
	Error    string `json:"error,omitempty"`
}

func runInstall(cmd *cobra.Command, args []string) error {
	service, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}

	out := cmd.OutOrStdout()
	ask := func(c domain.Collision) bool {
		if jsonOutput && !assumeYes {
			// No interactive prompts in JSON mode
			return false
		}
		return confirm(out, collisionQuestion(c))
	}

	outcomes, err := service.InstallAll(context.Background(), args, ask)
	if err != nil {
		return err
	}

	if jsonOutput {
		items := make([]installJSON, 0, len(outcomes))
		for _, o := range outcomes {
			items = append(items, toInstallJSON(o))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	} else {
		for _, o := range outcomes {
			printOutcome(cmd, o)
		}
	}

	if err := installError(outcomes); err != nil {
		// Per-source errors are already in the output
		return reportedError{err}
	}
	return nil
}

func printOutcome(cmd *cobra.Command, o core.InstallOutcome) {
	out := cmd.OutOrStdout()
	if o.Err != nil {
		fmt.Fprintf(out, "%s %s: %v\n", colorRed("✗"), o.Source, o.Err)
		return
	}

	r := o.Result
	line := fmt.Sprintf("%s Installed %s", colorGreen("✓"), r.Name)
	if r.Mod != nil && r.Mod.Version != "" {
		line += " v" + r.Mod.Version
	}
	if r.Replaced {
		line += " (replaced existing copy)"
	}
	fmt.Fprintln(out, line)

	if verbose {
		fmt.Fprintf(out, "  Path: %s\n", r.Path)
		fmt.Fprintf(out, "  Files: %d\n", r.Files)
		if r.Mod != nil && r.Mod.InSubfolder {
			fmt.Fprintf(out, "  Descriptor found in subfolder %s\n", r.Mod.SubfolderName)
		}
	}
}

// installError summarizes a batch. A single source returns its own error so
// a declined overwrite exits as a cancellation.
func installError(outcomes []core.InstallOutcome) error {
	if len(outcomes) == 1 {
		return outcomes[0].Err
	}

	var failed int
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d installs failed", failed, len(outcomes))
	}
	return nil
}

func toInstallJSON(o core.InstallOutcome) installJSON {
	item := installJSON{Source: o.Source}
	if o.Err != nil {
		item.Error = o.Err.Error()
		return item
	}
	item.Folder = o.Result.Name
	item.Path = o.Result.Path
	item.Replaced = o.Result.Replaced
	item.Files = o.Result.Files
	if o.Result.Mod != nil {
		item.Version = o.Result.Mod.Version
	}
	return item
}
