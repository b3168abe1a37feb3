package linker

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
)

// HardlinkLinker writes mod files as hard links to the source
type HardlinkLinker struct {
	fallback *CopyLinker
}

// NewHardlink creates a new hardlink linker
func NewHardlink() *HardlinkLinker {
	return &HardlinkLinker{fallback: NewCopy()}
}

// Deploy creates a hard link from src to dst.
// Archive installs extract to the system temp dir, which is often another
// volume; when linking fails the file is copied instead.
func (l *HardlinkLinker) Deploy(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing existing file: %w", err)
	}

	if err := os.Link(src, dst); err != nil {
		return l.fallback.Deploy(src, dst)
	}

	return nil
}

// Method returns the link method
func (l *HardlinkLinker) Method() domain.LinkMethod {
	return domain.LinkHardlink
}
