package core

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/storage/config"
)

// Archive extensions accepted for installation
const (
	ExtZip   = ".zip"
	Ext7z    = ".7z"
	ExtRar   = ".rar"
	ExtTarGz = ".tar.gz"
)

// QuotePowerShell marks a tool whose command embeds paths inside a
// single-quoted PowerShell string.
const QuotePowerShell = "powershell"

// BuiltinZipName is the name of the in-process zip backend
const BuiltinZipName = "builtin-zip"

var supportedFormats = []string{ExtZip, Ext7z, ExtRar, ExtTarGz}

// Tool is one row of the extraction tool table. The table order is the
// selection priority.
type Tool struct {
	Name       string
	Probe      []string // argv; exit code 0 means the tool is installed
	Command    []string // argv template with {archive} and {dest} placeholders
	Extensions []string // Empty means any supported format
	Quote      string   // "" or QuotePowerShell
	Builtin    bool     // Handled in-process; never probed
}

// Handles reports whether the tool accepts archives with the given format.
func (t Tool) Handles(format string) bool {
	if len(t.Extensions) == 0 {
		return true
	}
	return slices.ContainsFunc(t.Extensions, func(ext string) bool {
		return strings.EqualFold(ext, format)
	})
}

// Argv fills the command template for one archive.
func (t Tool) Argv(archivePath, destDir string) []string {
	if t.Quote == QuotePowerShell {
		archivePath = quotePowerShell(archivePath)
		destDir = quotePowerShell(destDir)
	}

	r := strings.NewReplacer("{archive}", archivePath, "{dest}", destDir)
	argv := make([]string, len(t.Command))
	for i, arg := range t.Command {
		argv[i] = r.Replace(arg)
	}
	return argv
}

// quotePowerShell escapes a value for use inside a single-quoted PowerShell string
func quotePowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// BuiltinZipTool returns the table entry for the in-process zip backend.
func BuiltinZipTool() Tool {
	return Tool{Name: BuiltinZipName, Extensions: []string{ExtZip}, Builtin: true}
}

// DefaultTools returns the external extraction tools tried on the given platform.
func DefaultTools(goos string) []Tool {
	if goos == "windows" {
		return []Tool{
			{
				Name:  "powershell",
				Probe: []string{"powershell", "-NoProfile", "-Command", "Get-Command Expand-Archive"},
				Command: []string{"powershell", "-NoProfile", "-Command",
					"& { Expand-Archive -LiteralPath '{archive}' -DestinationPath '{dest}' -Force }"},
				Extensions: []string{ExtZip},
				Quote:      QuotePowerShell,
			},
			{
				Name:    "7z",
				Probe:   []string{"7z", "--help"},
				Command: []string{"7z", "x", "{archive}", "-o{dest}", "-y"},
			},
			{
				Name:    "winrar",
				Probe:   []string{"winrar", "/?"},
				Command: []string{"winrar", "x", "-y", "{archive}", `{dest}\`},
			},
		}
	}

	return []Tool{
		{
			Name:       "unzip",
			Probe:      []string{"unzip", "-v"},
			Command:    []string{"unzip", "-o", "{archive}", "-d", "{dest}"},
			Extensions: []string{ExtZip},
		},
		{
			Name:    "7z",
			Probe:   []string{"7z", "--help"},
			Command: []string{"7z", "x", "{archive}", "-o{dest}", "-y"},
		},
		{
			Name:       "tar",
			Probe:      []string{"tar", "--version"},
			Command:    []string{"tar", "-xzf", "{archive}", "-C", "{dest}"},
			Extensions: []string{ExtTarGz},
		},
	}
}

// ToolsFromConfig builds the tool table from config: the configured tools
// replace the platform defaults, and the built-in zip backend is appended
// last when enabled.
func ToolsFromConfig(cfg config.ExtractConfig, goos string) []Tool {
	var tools []Tool
	if len(cfg.Tools) > 0 {
		for _, tc := range cfg.Tools {
			tools = append(tools, Tool{
				Name:       tc.Name,
				Probe:      tc.Probe,
				Command:    tc.Command,
				Extensions: tc.Extensions,
				Quote:      tc.Quote,
			})
		}
	} else {
		tools = DefaultTools(goos)
	}

	if cfg.BuiltinZipEnabled() {
		tools = append(tools, BuiltinZipTool())
	}
	return tools
}

// ArchiveFormat returns the archive format of a file name (".zip", ".7z",
// ".rar" or ".tar.gz"), or "" when the name is not a supported archive.
func ArchiveFormat(name string) string {
	lower := strings.ToLower(filepath.Base(name))
	if strings.HasSuffix(lower, ExtTarGz) {
		return ExtTarGz
	}
	ext := filepath.Ext(lower)
	if slices.Contains(supportedFormats, ext) {
		return ext
	}
	return ""
}

// IsArchive reports whether name has a supported archive extension.
func IsArchive(name string) bool {
	return ArchiveFormat(name) != ""
}

// ArchiveStem returns the file name without its archive extension.
func ArchiveStem(name string) string {
	base := filepath.Base(name)
	format := ArchiveFormat(base)
	if format == "" {
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base[:len(base)-len(format)]
}

// installHint tells the user which tools would let them extract archives
func installHint(goos string) string {
	if goos == "windows" {
		return "For .zip files, Windows built-in support should work.\nFor other formats, please install 7-Zip or WinRAR."
	}
	return "Please install one of the following:\n• unzip (for .zip files)\n• 7z (for multiple archive formats)\n• tar (for .tar.gz files)"
}
