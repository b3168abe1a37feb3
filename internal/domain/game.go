package domain

import "path/filepath"

// Folder names used by the game for enabled and disabled mods
const (
	ModsFolder         = "Mods"
	DisabledModsFolder = "DisabledMods"
)

// LinkMethod determines how mod files are written into the mods folder
type LinkMethod int

const (
	LinkCopy     LinkMethod = iota // Default: copy (source may be a temp dir)
	LinkHardlink                   // Hardlink (same volume only, no extra space)
)

func (m LinkMethod) String() string {
	switch m {
	case LinkCopy:
		return "copy"
	case LinkHardlink:
		return "hardlink"
	default:
		return "unknown"
	}
}

// ParseLinkMethod converts a string to LinkMethod
func ParseLinkMethod(s string) LinkMethod {
	switch s {
	case "hardlink":
		return LinkHardlink
	default:
		return LinkCopy
	}
}

// Roots holds the active and disabled mod folders.
// A mod is an immediate subdirectory of exactly one of them.
type Roots struct {
	Active   string
	Disabled string
}

// For returns the active root when enabled is true, else the disabled root.
func (r Roots) For(enabled bool) string {
	if enabled {
		return r.Active
	}
	return r.Disabled
}

// RootsFromOverride derives both roots from a user-chosen mods folder.
// The disabled folder is a sibling named DisabledMods.
func RootsFromOverride(modsPath string) Roots {
	return Roots{
		Active:   modsPath,
		Disabled: filepath.Join(filepath.Dir(modsPath), DisabledModsFolder),
	}
}
