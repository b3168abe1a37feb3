package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
)

// ValidateName rejects folder names that would escape the mods folder.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidName, name)
	}
	return nil
}

// Lookup reports whether a mod folder exists and which side holds it.
// The active folder is checked first.
func Lookup(roots domain.Roots, folder string) (enabled bool, found bool) {
	for _, side := range []bool{true, false} {
		info, err := os.Stat(filepath.Join(roots.For(side), folder))
		if err == nil && info.IsDir() {
			return side, true
		}
	}
	return false, false
}

// Toggle moves a mod between the active and disabled folders.
// It never overwrites a folder of the same name on the other side.
func Toggle(ctx context.Context, roots domain.Roots, folder string, currentlyEnabled bool) error {
	if err := ValidateName(folder); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	src := filepath.Join(roots.For(currentlyEnabled), folder)
	dstRoot := roots.For(!currentlyEnabled)
	dst := filepath.Join(dstRoot, folder)

	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, folder)
		}
		return fmt.Errorf("checking mod folder: %w", err)
	}

	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s in %s", domain.ErrAlreadyExists, folder, dstRoot)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking destination: %w", err)
	}

	if err := os.MkdirAll(dstRoot, 0755); err != nil {
		return fmt.Errorf("creating mods folder: %w", err)
	}

	if err := os.Rename(src, dst); err != nil {
		if isCrossDevice(err) {
			return fmt.Errorf("%w: cannot move %s to %s", domain.ErrCrossVolume, folder, dstRoot)
		}
		return fmt.Errorf("moving mod: %w", err)
	}

	return nil
}

// Delete removes a mod folder and everything in it. Callers confirm first.
func Delete(ctx context.Context, roots domain.Roots, folder string, isEnabled bool) error {
	if err := ValidateName(folder); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(roots.For(isEnabled), folder)
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, folder)
		}
		return fmt.Errorf("checking mod folder: %w", err)
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("deleting mod: %w", err)
	}
	return nil
}
