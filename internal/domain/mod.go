package domain

import (
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// DescriptorExt is the extension of the XML file that identifies a mod
const DescriptorExt = ".modinfo"

// DefaultIcon is shown for mods that ship no icon file
const DefaultIcon = "assets/default-mod-icon.png"

// Descriptor is the metadata parsed from a .modinfo file
type Descriptor struct {
	ID                 string
	Version            string
	Name               string // Raw value, often a localization key
	Description        string // Raw value, often a localization key
	ManagerName        string // Optional display override from <ModManager>
	ManagerDescription string // Optional display override from <ModManager>
	Authors            string
	AffectsSavedGames  bool
}

// DescriptorLocation records where a .modinfo file was found relative to the scanned folder
type DescriptorLocation struct {
	Path          string
	InSubfolder   bool
	SubfolderName string // Set only when InSubfolder is true
}

// ContentRoot returns the directory holding the mod payload for a folder scanned at root.
func (l DescriptorLocation) ContentRoot(root string) string {
	if l.InSubfolder {
		return filepath.Join(root, l.SubfolderName)
	}
	return root
}

// LocalizationTable maps text keys (e.g. LOC_MOD_NAME) to display strings
type LocalizationTable map[string]string

// InstalledMod is a mod found under the active or disabled folder.
// It is rebuilt on every scan and never persisted.
type InstalledMod struct {
	Folder            string // On-disk folder name; the mod's identity for toggle/delete
	ID                string
	Version           string
	Name              string // Display name after override/localization
	Description       string // Display description after override/localization
	Authors           string
	AffectsSavedGames bool
	Enabled           bool
	IconPath          string
	InSubfolder       bool
	SubfolderName     string
}

// Collision describes an install whose folder name is already taken
type Collision struct {
	Name            string
	ExistingEnabled bool   // Which root holds the existing copy
	ExistingVersion string // Empty when the existing descriptor could not be read
	IncomingVersion string
}

// Change classifies the version transition: "upgrade", "downgrade", "reinstall",
// or "" when either side is not a comparable version.
func (c Collision) Change() string {
	oldV, newV := canonicalVersion(c.ExistingVersion), canonicalVersion(c.IncomingVersion)
	if oldV == "" || newV == "" {
		return ""
	}
	switch semver.Compare(newV, oldV) {
	case 1:
		return "upgrade"
	case -1:
		return "downgrade"
	default:
		return "reinstall"
	}
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// ConfirmFunc asks the user whether an existing mod may be overwritten.
// Returning false cancels the install.
type ConfirmFunc func(Collision) bool
