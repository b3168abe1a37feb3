package core_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DonovanMods/civ-mod-manager/internal/core"
	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, platform string) (*core.Service, string) {
	t.Helper()
	// Keep the developer's own Steam install out of the default roots
	t.Setenv("STEAM_ROOT", "")
	home := t.TempDir()
	svc, err := core.NewService(core.ServiceConfig{
		ConfigDir: filepath.Join(home, ".config", "cmm"),
		Platform:  platform,
		HomeDir:   home,
		Runner:    newFakeRunner(nil),
	})
	require.NoError(t, err)
	return svc, home
}

// useModsFolder points the service at a fresh custom mods folder
func useModsFolder(t *testing.T, svc *core.Service) domain.Roots {
	t.Helper()
	mods := filepath.Join(t.TempDir(), "Mods")
	require.NoError(t, os.MkdirAll(mods, 0755))
	_, err := svc.SetCustomModsPath(mods)
	require.NoError(t, err)
	roots, err := svc.Roots()
	require.NoError(t, err)
	return roots
}

func TestNewService_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "extract: [")

	_, err := core.NewService(core.ServiceConfig{ConfigDir: dir})
	assert.Error(t, err)
}

func TestService_Roots_PlatformDefaults(t *testing.T) {
	svc, home := newTestService(t, "darwin")
	roots, err := svc.Roots()
	require.NoError(t, err)

	base := filepath.Join(home, "Library", "Application Support", "Civilization VII")
	assert.Equal(t, filepath.Join(base, "Mods"), roots.Active)
	assert.Equal(t, filepath.Join(base, "DisabledMods"), roots.Disabled)

	linux, _ := newTestService(t, "linux")
	_, err = linux.Roots()
	assert.ErrorIs(t, err, domain.ErrNoDefaultRoots)
}

func TestService_CustomModsPath(t *testing.T) {
	svc, _ := newTestService(t, "linux")

	path, err := svc.CustomModsPath()
	require.NoError(t, err)
	assert.Empty(t, path)

	_, err = svc.SetCustomModsPath("relative/Mods")
	assert.Error(t, err)

	roots := useModsFolder(t, svc)
	assert.Equal(t, filepath.Join(filepath.Dir(roots.Active), "DisabledMods"), roots.Disabled)

	path, err = svc.CustomModsPath()
	require.NoError(t, err)
	assert.Equal(t, roots.Active, path)

	require.NoError(t, svc.ClearCustomModsPath())
	_, err = svc.Roots()
	assert.ErrorIs(t, err, domain.ErrNoDefaultRoots)
}

func TestService_Roots_RereadsSettings(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, "cfg")
	svc, err := core.NewService(core.ServiceConfig{ConfigDir: configDir, Platform: "linux", HomeDir: home})
	require.NoError(t, err)

	mods := filepath.Join(home, "Elsewhere", "Mods")
	require.NoError(t, config.OpenSettings(configDir).Set(config.CustomModsPathKey, mods))

	roots, err := svc.Roots()
	require.NoError(t, err)
	assert.Equal(t, mods, roots.Active)
}

func TestService_ModsPathWinsOverSettings(t *testing.T) {
	home := t.TempDir()
	configDir := filepath.Join(home, "cfg")
	require.NoError(t, config.OpenSettings(configDir).Set(config.CustomModsPathKey, filepath.Join(home, "Saved", "Mods")))

	oneShot := filepath.Join(home, "OneShot", "Mods")
	svc, err := core.NewService(core.ServiceConfig{ConfigDir: configDir, ModsPath: oneShot, Platform: "linux", HomeDir: home})
	require.NoError(t, err)

	roots, err := svc.Roots()
	require.NoError(t, err)
	assert.Equal(t, oneShot, roots.Active)
}

func TestService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, "linux")
	roots := useModsFolder(t, svc)

	src := t.TempDir()
	writeMod(t, filepath.Join(src, "Zulu"), "zulu", "1", "Zulu")
	writeMod(t, filepath.Join(src, "Alpha"), "alpha", "1", "Alpha")

	outcomes, err := svc.InstallAll(ctx, []string{filepath.Join(src, "Zulu"), filepath.Join(src, "Alpha")}, neverConfirm)
	require.NoError(t, err)
	for _, o := range outcomes {
		require.NoError(t, o.Err)
	}

	require.NoError(t, svc.Disable(ctx, "Alpha"))
	require.NoError(t, svc.Disable(ctx, "Alpha"), "disabling twice is a no-op")

	enabled, found, err := svc.Lookup("Alpha")
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, enabled)

	mods, err := svc.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "Zulu", mods[0].Folder, "enabled mods sort first")
	assert.Equal(t, "Alpha", mods[1].Folder)

	require.NoError(t, svc.Enable(ctx, "Alpha"))
	require.NoError(t, svc.Toggle(ctx, "Zulu", true))
	assert.DirExists(t, filepath.Join(roots.Disabled, "Zulu"))

	require.NoError(t, svc.Delete(ctx, "Zulu", false))
	_, found, err = svc.Lookup("Zulu")
	require.NoError(t, err)
	assert.False(t, found)

	assert.ErrorIs(t, svc.Enable(ctx, "Zulu"), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Disable(ctx, "a/b"), domain.ErrInvalidName)
}

func TestService_Install_Collision(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, "linux")
	useModsFolder(t, svc)

	src := filepath.Join(t.TempDir(), "Mod")
	writeMod(t, src, "mod", "1", "Mod")

	_, err := svc.Install(ctx, src, neverConfirm)
	require.NoError(t, err)

	_, err = svc.Install(ctx, src, neverConfirm)
	assert.ErrorIs(t, err, domain.ErrCancelled)

	result, err := svc.Install(ctx, src, alwaysConfirm)
	require.NoError(t, err)
	assert.True(t, result.Replaced)
}

func TestService_ConcurrentInstalls(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, "linux")
	useModsFolder(t, svc)

	src := t.TempDir()
	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		dir := filepath.Join(src, fmt.Sprintf("Mod%d", i))
		writeMod(t, dir, fmt.Sprintf("mod%d", i), "1", fmt.Sprintf("Mod %d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Install(ctx, dir, neverConfirm)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	mods, err := svc.Scan(ctx)
	require.NoError(t, err)
	assert.Len(t, mods, n)
}

func TestService_SaveConfig(t *testing.T) {
	svc, home := newTestService(t, "linux")

	cfg := *svc.Config()
	cfg.LinkMethod = domain.LinkHardlink
	cfg.Keybindings = "standard"
	require.NoError(t, svc.SaveConfig(&cfg))

	assert.Equal(t, domain.LinkHardlink, svc.Config().LinkMethod)

	loaded, err := config.Load(filepath.Join(home, ".config", "cmm"))
	require.NoError(t, err)
	assert.Equal(t, domain.LinkHardlink, loaded.LinkMethod)
	assert.Equal(t, "standard", loaded.Keybindings)

	useModsFolder(t, svc)
	src := filepath.Join(t.TempDir(), "Linked")
	writeMod(t, src, "linked", "1", "Linked")
	_, err = svc.Install(context.Background(), src, neverConfirm)
	require.NoError(t, err)
}

func TestService_SaveConfig_ExtractSettingsApply(t *testing.T) {
	svc, _ := newTestService(t, "linux")
	useModsFolder(t, svc)

	zipPath := createZip(t, t.TempDir(), "Zipped.zip", map[string]string{
		"Zipped/z.modinfo": modinfoXML("z", "1", "Zipped"),
	})

	// The fake runner reports no external tools, so only the built-in backend can help
	cfg := *svc.Config()
	off := false
	cfg.Extract.BuiltinZip = &off
	cfg.Extract.TimeoutSeconds = 60
	require.NoError(t, svc.SaveConfig(&cfg))

	_, err := svc.Install(context.Background(), zipPath, neverConfirm)
	require.ErrorIs(t, err, domain.ErrNoToolAvailable)

	on := true
	cfg.Extract.BuiltinZip = &on
	require.NoError(t, svc.SaveConfig(&cfg))

	result, err := svc.Install(context.Background(), zipPath, neverConfirm)
	require.NoError(t, err)
	assert.Equal(t, "Zipped", result.Name)
}

func TestService_SettingsPath(t *testing.T) {
	svc, home := newTestService(t, "linux")
	assert.Equal(t, filepath.Join(home, ".config", "cmm", config.SettingsFile), svc.SettingsPath())
}
