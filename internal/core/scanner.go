package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Scanner builds the inventory of installed mods from the mods folders
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a new Scanner
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{logger: logger}
}

// Scan lists the enabled mods followed by the disabled mods. Folders without a
// readable descriptor are skipped. A missing mods folder counts as empty.
func (s *Scanner) Scan(ctx context.Context, roots domain.Roots) ([]domain.InstalledMod, error) {
	active, err := s.ScanRoot(ctx, roots.Active, true)
	if err != nil {
		return nil, err
	}
	disabled, err := s.ScanRoot(ctx, roots.Disabled, false)
	if err != nil {
		return nil, err
	}
	return append(active, disabled...), nil
}

// ScanRoot lists the mods directly under one mods folder.
func (s *Scanner) ScanRoot(ctx context.Context, root string, enabled bool) ([]domain.InstalledMod, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.InstalledMod{}, nil
		}
		return nil, fmt.Errorf("reading mods folder %s: %w", root, err)
	}

	mods := make([]domain.InstalledMod, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		folderPath := filepath.Join(root, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil || !info.IsDir() {
			continue
		}

		mod, err := s.Inspect(folderPath, enabled)
		if err != nil {
			s.logger.Debug("skipping folder", "path", folderPath, "error", err)
			continue
		}
		mods = append(mods, *mod)
	}

	return mods, nil
}

// Inspect builds the inventory entry for a single package folder.
func (s *Scanner) Inspect(folderPath string, enabled bool) (*domain.InstalledMod, error) {
	loc, ok := Locate(folderPath)
	if !ok {
		return nil, domain.ErrNoDescriptor
	}

	desc, err := ParseDescriptor(loc.Path)
	if err != nil {
		return nil, err
	}

	contentRoot := loc.ContentRoot(folderPath)
	table := ParseLocalization(contentRoot, s.logger)

	return &domain.InstalledMod{
		Folder:            filepath.Base(folderPath),
		ID:                desc.ID,
		Version:           desc.Version,
		Name:              ResolveText(desc.ManagerName, desc.Name, table),
		Description:       ResolveText(desc.ManagerDescription, desc.Description, table),
		Authors:           desc.Authors,
		AffectsSavedGames: desc.AffectsSavedGames,
		Enabled:           enabled,
		IconPath:          findIcon(contentRoot),
		InSubfolder:       loc.InSubfolder,
		SubfolderName:     loc.SubfolderName,
	}, nil
}

// findIcon returns the first file named icon.* in dir, or the default icon.
func findIcon(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.DefaultIcon
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(strings.ToLower(entry.Name()), "icon.") {
			return filepath.Join(dir, entry.Name())
		}
	}
	return domain.DefaultIcon
}

// SortInstalled orders mods for display: enabled first, then by name using
// English collation, then by folder name.
func SortInstalled(mods []domain.InstalledMod) {
	col := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(mods, func(a, b domain.InstalledMod) int {
		if a.Enabled != b.Enabled {
			if a.Enabled {
				return -1
			}
			return 1
		}
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Folder, b.Folder)
	})
}
