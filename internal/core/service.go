package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/linker"
	"github.com/DonovanMods/civ-mod-manager/internal/storage/config"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir string        // Directory holding config.yaml and settings.json
	ModsPath  string        // Optional active mods folder that wins over settings for this run
	Platform  string        // Defaults to runtime.GOOS
	HomeDir   string        // Defaults to the current user's home directory
	Runner    CommandRunner // Defaults to running real programs
	Logger    *slog.Logger  // Defaults to discarding everything
}

// Service is the main orchestrator for mod management operations
type Service struct {
	mu sync.Mutex // Serializes mutations of the mods folders

	config    *config.Config
	settings  *config.Settings
	extractor *Extractor
	scanner   *Scanner
	installer *Installer
	runner    CommandRunner
	logger    *slog.Logger

	configDir string
	modsPath  string
	platform  string
	homeDir   string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	platform := cfg.Platform
	if platform == "" {
		platform = runtime.GOOS
	}

	homeDir := cfg.HomeDir
	if homeDir == "" {
		// Only needed for the default roots; a missing home surfaces there
		homeDir, _ = os.UserHomeDir()
	}

	s := &Service{
		settings:  config.OpenSettings(cfg.ConfigDir),
		scanner:   NewScanner(logger),
		runner:    cfg.Runner,
		logger:    logger,
		configDir: cfg.ConfigDir,
		modsPath:  cfg.ModsPath,
		platform:  platform,
		homeDir:   homeDir,
	}
	s.applyConfig(appConfig)
	return s, nil
}

// applyConfig rebuilds the extractor and installer from cfg
func (s *Service) applyConfig(cfg *config.Config) {
	s.config = cfg
	s.extractor = NewExtractor(ExtractorConfig{
		Runner:   s.runner,
		Tools:    ToolsFromConfig(cfg.Extract, s.platform),
		Platform: s.platform,
		Timeout:  cfg.Extract.Timeout(),
		Logger:   s.logger,
	})
	s.installer = NewInstaller(s.extractor, s.scanner, linker.New(cfg.LinkMethod), s.logger)
}

// Config returns the loaded application configuration
func (s *Service) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SaveConfig writes cfg to config.yaml. Link method and extraction settings
// apply to later installs.
func (s *Service) SaveConfig(cfg *config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := cfg.Save(s.configDir); err != nil {
		return err
	}
	s.applyConfig(cfg)
	return nil
}

// SettingsPath returns the location of settings.json
func (s *Service) SettingsPath() string {
	return s.settings.Path()
}

// Roots resolves the active and disabled mods folders. The settings file is
// re-read on every call so a changed custom path takes effect immediately.
func (s *Service) Roots() (domain.Roots, error) {
	if s.modsPath != "" {
		return domain.RootsFromOverride(s.modsPath), nil
	}

	custom, err := s.settings.Get(config.CustomModsPathKey)
	if err != nil {
		return domain.Roots{}, err
	}
	if custom != "" {
		return domain.RootsFromOverride(custom), nil
	}

	if s.homeDir == "" {
		return domain.Roots{}, fmt.Errorf("%w: home directory unknown", domain.ErrNoDefaultRoots)
	}
	return config.DefaultRoots(s.platform, s.homeDir)
}

// Scan returns the installed mods in display order.
func (s *Service) Scan(ctx context.Context) ([]domain.InstalledMod, error) {
	roots, err := s.Roots()
	if err != nil {
		return nil, err
	}

	mods, err := s.scanner.Scan(ctx, roots)
	if err != nil {
		return nil, err
	}
	SortInstalled(mods)
	return mods, nil
}

// Lookup reports whether a mod folder is installed and whether it is enabled.
func (s *Service) Lookup(folder string) (enabled bool, found bool, err error) {
	if err := ValidateName(folder); err != nil {
		return false, false, err
	}

	roots, err := s.Roots()
	if err != nil {
		return false, false, err
	}
	enabled, found = Lookup(roots, folder)
	return enabled, found, nil
}

// Install installs a mod folder or archive into the active mods folder.
func (s *Service) Install(ctx context.Context, sourcePath string, confirm domain.ConfirmFunc) (*InstallResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots, err := s.Roots()
	if err != nil {
		return nil, err
	}
	return s.installer.Install(ctx, sourcePath, roots, confirm)
}

// InstallAll installs several sources one after another.
func (s *Service) InstallAll(ctx context.Context, sources []string, confirm domain.ConfirmFunc) ([]InstallOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots, err := s.Roots()
	if err != nil {
		return nil, err
	}
	return s.installer.InstallAll(ctx, sources, roots, confirm), nil
}

// Toggle moves a mod to the other side.
func (s *Service) Toggle(ctx context.Context, folder string, currentlyEnabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots, err := s.Roots()
	if err != nil {
		return err
	}
	return Toggle(ctx, roots, folder, currentlyEnabled)
}

// Enable moves a disabled mod into the active folder. Already enabled mods are left alone.
func (s *Service) Enable(ctx context.Context, folder string) error {
	return s.setEnabled(ctx, folder, true)
}

// Disable moves an enabled mod into the disabled folder. Already disabled mods are left alone.
func (s *Service) Disable(ctx context.Context, folder string) error {
	return s.setEnabled(ctx, folder, false)
}

func (s *Service) setEnabled(ctx context.Context, folder string, enable bool) error {
	if err := ValidateName(folder); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roots, err := s.Roots()
	if err != nil {
		return err
	}

	enabled, found := Lookup(roots, folder)
	if !found {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, folder)
	}
	if enabled == enable {
		return nil
	}
	return Toggle(ctx, roots, folder, enabled)
}

// Delete removes an installed mod from the given side.
func (s *Service) Delete(ctx context.Context, folder string, isEnabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots, err := s.Roots()
	if err != nil {
		return err
	}
	return Delete(ctx, roots, folder, isEnabled)
}

// CustomModsPath returns the saved mods folder override, or "" when unset.
func (s *Service) CustomModsPath() (string, error) {
	return s.settings.Get(config.CustomModsPathKey)
}

// SetCustomModsPath validates and saves a mods folder override.
func (s *Service) SetCustomModsPath(path string) (string, error) {
	clean, err := config.ParseModsPath(path)
	if err != nil {
		return "", err
	}
	if err := s.settings.Set(config.CustomModsPathKey, clean); err != nil {
		return "", err
	}
	return clean, nil
}

// ClearCustomModsPath removes the mods folder override so the platform default applies again.
func (s *Service) ClearCustomModsPath() error {
	return s.settings.Set(config.CustomModsPathKey, "")
}
