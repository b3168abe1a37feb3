package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/linker"

	"github.com/google/uuid"
)

// Prefixes of the temporary folders created next to the mods folders
const (
	stagingPrefix  = ".cmm-staging-"
	replacedPrefix = ".cmm-replaced-"
)

// extractDirName is the folder inside the temp dir that receives archive contents
const extractDirName = "archive"

// InstallResult describes a completed installation
type InstallResult struct {
	Name     string // Folder name under the active mods folder
	Path     string
	Mod      *domain.InstalledMod
	Replaced bool // An existing copy was overwritten
	Files    int  // Number of files written
}

// InstallOutcome is the result of one source in a batch install
type InstallOutcome struct {
	Source string
	Result *InstallResult
	Err    error
}

// Installer copies mod folders and archives into the active mods folder
type Installer struct {
	extractor *Extractor
	scanner   *Scanner
	linker    linker.Linker
	logger    *slog.Logger
}

// NewInstaller creates a new installer
func NewInstaller(extractor *Extractor, scanner *Scanner, lnk linker.Linker, logger *slog.Logger) *Installer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Installer{
		extractor: extractor,
		scanner:   scanner,
		linker:    lnk,
		logger:    logger,
	}
}

// candidate is a folder that should hold a mod, ready to be installed
type candidate struct {
	dir  string
	name string
}

// Install installs the folder or archive at sourcePath into the active mods folder.
// When a mod with the same folder name is already installed, confirm decides
// whether it is overwritten; declining returns domain.ErrCancelled.
func (i *Installer) Install(ctx context.Context, sourcePath string, roots domain.Roots, confirm domain.ConfirmFunc) (*InstallResult, error) {
	cand, cleanup, err := i.prepare(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	loc, ok := Locate(cand.dir)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoDescriptor, filepath.Base(sourcePath))
	}

	desc, err := ParseDescriptor(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoDescriptor, err)
	}

	name := cand.name
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	existing := existingCopies(roots, name)
	if len(existing) > 0 {
		collision := domain.Collision{
			Name:            name,
			ExistingEnabled: existing[0].enabled,
			ExistingVersion: installedVersion(existing[0].path),
			IncomingVersion: desc.Version,
		}
		if confirm == nil || !confirm(collision) {
			return nil, fmt.Errorf("%w: %s is already installed", domain.ErrCancelled, name)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(roots.Active, 0755); err != nil {
		return nil, fmt.Errorf("creating mods folder: %w", err)
	}

	staging := filepath.Join(filepath.Dir(roots.Active), stagingPrefix+uuid.NewString())
	files, err := i.stage(ctx, loc.ContentRoot(cand.dir), staging)
	if err != nil {
		i.removeTemp(staging)
		return nil, err
	}

	dest := filepath.Join(roots.Active, name)
	if err := i.commit(staging, dest, existing); err != nil {
		i.removeTemp(staging)
		return nil, err
	}

	mod, err := i.scanner.Inspect(dest, true)
	if err != nil {
		return nil, fmt.Errorf("reading installed mod: %w", err)
	}

	i.logger.Debug("installed mod", "name", name, "files", files, "method", i.linker.Method(), "replaced", len(existing) > 0)

	return &InstallResult{
		Name:     name,
		Path:     dest,
		Mod:      mod,
		Replaced: len(existing) > 0,
		Files:    files,
	}, nil
}

// InstallAll installs each source in order. A failure is recorded in its
// outcome and does not stop the remaining sources.
func (i *Installer) InstallAll(ctx context.Context, sources []string, roots domain.Roots, confirm domain.ConfirmFunc) []InstallOutcome {
	outcomes := make([]InstallOutcome, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			outcomes = append(outcomes, InstallOutcome{Source: src, Err: err})
			continue
		}
		result, err := i.Install(ctx, src, roots, confirm)
		outcomes = append(outcomes, InstallOutcome{Source: src, Result: result, Err: err})
	}
	return outcomes
}

// prepare resolves sourcePath to a folder on disk, extracting archives into a
// temporary directory. The returned cleanup func is always safe to call.
func (i *Installer) prepare(ctx context.Context, sourcePath string) (candidate, func(), error) {
	noop := func() {}

	info, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return candidate{}, noop, fmt.Errorf("%w: %s", domain.ErrNotFound, sourcePath)
		}
		return candidate{}, noop, fmt.Errorf("reading source: %w", err)
	}

	if info.IsDir() {
		clean := filepath.Clean(sourcePath)
		return candidate{dir: clean, name: filepath.Base(clean)}, noop, nil
	}

	if !IsArchive(sourcePath) {
		return candidate{}, noop, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Base(sourcePath))
	}

	tmp, err := os.MkdirTemp("", "cmm-extract-*")
	if err != nil {
		return candidate{}, noop, fmt.Errorf("creating temp dir: %w", err)
	}
	cleanup := func() { i.removeTemp(tmp) }

	// The stem only names the mod; it may be anything, so it never becomes a path
	result, err := i.extractor.Extract(ctx, sourcePath, filepath.Join(tmp, extractDirName))
	if err != nil {
		cleanup()
		return candidate{}, noop, err
	}

	name := ArchiveStem(sourcePath)
	if result.Wrapper != "" {
		name = result.Wrapper
	}
	return candidate{dir: result.Dir, name: name}, cleanup, nil
}

// stage writes every file under contentRoot into staging and returns the file count.
func (i *Installer) stage(ctx context.Context, contentRoot, staging string) (int, error) {
	files := 0
	err := filepath.WalkDir(contentRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(contentRoot, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(staging, rel)

		if d.IsDir() {
			return os.MkdirAll(dst, 0755)
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				i.logger.Warn("skipping linked folder", "path", path)
				return nil
			}
		}

		if err := i.linker.Deploy(path, dst); err != nil {
			return fmt.Errorf("deploying %s: %w", rel, err)
		}
		files++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("staging mod files: %w", err)
	}
	return files, nil
}

type existingCopy struct {
	path    string
	enabled bool
}

// existingCopies returns the installed folders named name, active one first.
func existingCopies(roots domain.Roots, name string) []existingCopy {
	var found []existingCopy
	for _, enabled := range []bool{true, false} {
		path := filepath.Join(roots.For(enabled), name)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			found = append(found, existingCopy{path: path, enabled: enabled})
		}
	}
	return found
}

// installedVersion reads the version of an installed mod, or "" when unreadable.
func installedVersion(folderPath string) string {
	loc, ok := Locate(folderPath)
	if !ok {
		return ""
	}
	desc, err := ParseDescriptor(loc.Path)
	if err != nil {
		return ""
	}
	return desc.Version
}

// commit moves the staged folder into place. Existing copies are moved aside
// first and put back if the final rename fails.
func (i *Installer) commit(staging, dest string, existing []existingCopy) error {
	type moved struct{ from, to string }
	var aside []moved

	restore := func() {
		for _, m := range aside {
			if err := os.Rename(m.to, m.from); err != nil {
				i.logger.Warn("restoring replaced mod", "path", m.from, "error", err)
			}
		}
	}

	for _, e := range existing {
		to := filepath.Join(filepath.Dir(filepath.Dir(e.path)), replacedPrefix+uuid.NewString())
		if err := os.Rename(e.path, to); err != nil {
			restore()
			return fmt.Errorf("moving existing mod aside: %w", err)
		}
		aside = append(aside, moved{from: e.path, to: to})
	}

	if err := os.Rename(staging, dest); err != nil {
		restore()
		return fmt.Errorf("moving mod into place: %w", err)
	}

	for _, m := range aside {
		i.removeTemp(m.to)
	}
	return nil
}

func (i *Installer) removeTemp(path string) {
	if err := os.RemoveAll(path); err != nil {
		i.logger.Warn("removing temporary folder", "path", path, "error", err)
	}
}
