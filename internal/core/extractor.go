package core

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/storage/config"

	"github.com/google/uuid"
)

// ExtractorConfig holds the collaborators of an Extractor.
// Zero values select the real system.
type ExtractorConfig struct {
	Runner   CommandRunner
	Tools    []Tool // Defaults to DefaultTools(Platform) plus the built-in zip backend
	Platform string // Defaults to runtime.GOOS
	Timeout  time.Duration
	Logger   *slog.Logger
}

// ExtractResult describes an extracted archive
type ExtractResult struct {
	Dir     string // Directory holding the archive contents
	Wrapper string // Name of the single top-level folder that was flattened, if any
}

// Extractor unpacks mod archives using whichever tool is available
type Extractor struct {
	runner   CommandRunner
	tools    []Tool
	platform string
	timeout  time.Duration
	logger   *slog.Logger
}

// NewExtractor creates a new Extractor
func NewExtractor(cfg ExtractorConfig) *Extractor {
	e := &Extractor{
		runner:   cfg.Runner,
		tools:    cfg.Tools,
		platform: cfg.Platform,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}
	if e.runner == nil {
		e.runner = NewExecRunner()
	}
	if e.platform == "" {
		e.platform = runtime.GOOS
	}
	if e.tools == nil {
		e.tools = append(DefaultTools(e.platform), BuiltinZipTool())
	}
	if e.timeout <= 0 {
		e.timeout = config.DefaultExtractTimeout
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Extract unpacks archivePath into destDir. If the archive holds a single
// top-level folder, its contents are moved up one level.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) (*ExtractResult, error) {
	format := ArchiveFormat(archivePath)
	if format == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Base(archivePath))
	}

	tool, err := e.SelectTool(ctx, format)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	if err := e.run(ctx, tool, archivePath, destDir); err != nil {
		return nil, err
	}

	if format == ExtTarGz && len(tool.Extensions) == 0 {
		if err := e.expandInnerTar(ctx, tool, destDir); err != nil {
			return nil, err
		}
	}

	wrapper, err := unwrapSingleDir(destDir)
	if err != nil {
		return nil, fmt.Errorf("flattening archive folder: %w", err)
	}

	return &ExtractResult{Dir: destDir, Wrapper: wrapper}, nil
}

// SelectTool probes the tool table in order and returns the first tool that
// handles format and is installed. Probing is repeated on every call.
func (e *Extractor) SelectTool(ctx context.Context, format string) (Tool, error) {
	for _, tool := range e.tools {
		if !tool.Handles(format) {
			continue
		}
		if tool.Builtin || e.available(ctx, tool) {
			e.logger.Debug("selected extraction tool", "tool", tool.Name, "format", format)
			return tool, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return Tool{}, err
	}

	return Tool{}, &domain.NoToolError{
		Platform:  e.platform,
		Extension: format,
		Hint:      installHint(e.platform),
	}
}

func (e *Extractor) available(ctx context.Context, tool Tool) bool {
	if len(tool.Probe) == 0 {
		return true
	}

	result, err := e.runner.Run(ctx, tool.Probe[0], tool.Probe[1:]...)
	ok := err == nil && result.Success()
	e.logger.Debug("probed extraction tool", "tool", tool.Name, "available", ok)
	return ok
}

func (e *Extractor) run(ctx context.Context, tool Tool, archivePath, destDir string) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if tool.Builtin {
		if err := extractZip(ctx, archivePath, destDir); err != nil {
			return &domain.ExtractionError{Tool: tool.Name, Err: err}
		}
		return nil
	}

	argv := tool.Argv(archivePath, destDir)
	e.logger.Debug("running extraction tool", "tool", tool.Name, "argv", argv)

	result, err := e.runner.Run(ctx, argv[0], argv[1:]...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %v", e.timeout)
		}
		return &domain.ExtractionError{Tool: tool.Name, Output: toolOutput(result), Err: err}
	}
	if !result.Success() {
		return &domain.ExtractionError{
			Tool:   tool.Name,
			Output: toolOutput(result),
			Err:    fmt.Errorf("exit code %d", result.ExitCode),
		}
	}

	if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
		e.logger.Warn("extraction tool reported warnings", "tool", tool.Name, "stderr", stderr)
	}
	return nil
}

// expandInnerTar finishes a .tar.gz handled by a multi-format tool. Tools
// like 7z only strip the gzip layer and leave a lone .tar behind.
func (e *Extractor) expandInnerTar(ctx context.Context, tool Tool, destDir string) error {
	entries, err := os.ReadDir(destDir)
	if err != nil {
		return fmt.Errorf("reading extracted files: %w", err)
	}
	if len(entries) != 1 || entries[0].IsDir() || !strings.HasSuffix(strings.ToLower(entries[0].Name()), ".tar") {
		return nil
	}

	inner := filepath.Join(destDir, entries[0].Name())
	e.logger.Debug("expanding inner tar", "tool", tool.Name, "path", inner)
	if err := e.run(ctx, tool, inner, destDir); err != nil {
		return err
	}
	if err := os.Remove(inner); err != nil {
		return fmt.Errorf("removing inner tar: %w", err)
	}
	return nil
}

func toolOutput(r CommandResult) string {
	if out := strings.TrimSpace(r.Stderr); out != "" {
		return out
	}
	return strings.TrimSpace(r.Stdout)
}

// unwrapSingleDir moves the children of a lone top-level directory up into dir
// and returns that directory's name. It runs one level only.
func unwrapSingleDir(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		return "", nil
	}

	name := entries[0].Name()
	// Move the wrapper aside first so a child with the same name can take its place
	aside := filepath.Join(dir, ".cmm-unwrap-"+uuid.NewString())
	if err := os.Rename(filepath.Join(dir, name), aside); err != nil {
		return "", err
	}

	children, err := os.ReadDir(aside)
	if err != nil {
		return "", err
	}
	for _, child := range children {
		if err := os.Rename(filepath.Join(aside, child.Name()), filepath.Join(dir, child.Name())); err != nil {
			return "", err
		}
	}

	if err := os.Remove(aside); err != nil {
		return "", err
	}
	return name, nil
}

// extractZip extracts a ZIP archive using Go's native archive/zip package
func extractZip(ctx context.Context, archivePath, destDir string) (err error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer func() {
		if cerr := r.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing zip: %w", cerr)
		}
	}()

	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := extractZipFile(f, destDir); err != nil {
			return err
		}
	}

	return nil
}

// extractZipFile extracts a single file from a ZIP archive
func extractZipFile(f *zip.File, destDir string) (err error) {
	destPath, err := sanitizePath(destDir, f.Name)
	if err != nil {
		return err
	}

	if f.FileInfo().IsDir() {
		// 0755 so files can be written into it regardless of the stored mode
		return os.MkdirAll(destPath, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening file %s in archive: %w", f.Name, err)
	}
	defer func() {
		if cerr := rc.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing archive entry %s: %w", f.Name, cerr)
		}
	}()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	outFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := outFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file %s: %w", destPath, cerr)
		}
	}()

	if _, err = io.Copy(outFile, rc); err != nil {
		return fmt.Errorf("writing file %s: %w", destPath, err)
	}

	return nil
}

// sanitizePath ensures the extracted file path is within the destination directory.
// This prevents "zip slip" attacks where archives contain paths like "../../../etc/passwd".
func sanitizePath(destDir, filePath string) (string, error) {
	destPath := filepath.Join(destDir, filepath.Clean(filePath))

	cleanDest := filepath.Clean(destDir)
	if destPath != cleanDest && !strings.HasPrefix(destPath, cleanDest+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal detected: %s", filePath)
	}

	return destPath, nil
}
