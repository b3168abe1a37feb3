package linker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
)

// CopyLinker writes mod files by copying them
type CopyLinker struct{}

// NewCopy creates a new copy linker
func NewCopy() *CopyLinker {
	return &CopyLinker{}
}

// Deploy copies src to dst, creating parent directories as needed
func (l *CopyLinker) Deploy(src, dst string) (err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating destination dir: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer func() {
		if cerr := dstFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing destination: %w", cerr)
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copying file: %w", err)
	}

	return nil
}

// Method returns the link method
func (l *CopyLinker) Method() domain.LinkMethod {
	return domain.LinkCopy
}
