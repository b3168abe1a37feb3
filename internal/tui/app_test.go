package tui_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/DonovanMods/civ-mod-manager/internal/core"
	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_InitialState(t *testing.T) {
	app := tui.NewApp(nil)

	assert.Equal(t, tui.ViewInstalled, app.CurrentView())
	assert.NotEmpty(t, app.View())
	assert.Nil(t, app.Init(), "no service means nothing to scan")
}

func TestApp_NavigateToView(t *testing.T) {
	app := tui.NewApp(nil)

	newApp, _ := app.Update(tui.NavigateMsg{View: tui.ViewSettings})
	updatedApp := newApp.(tui.App)

	assert.Equal(t, tui.ViewSettings, updatedApp.CurrentView())

	newApp, _ = updatedApp.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	assert.Equal(t, tui.ViewInstalled, newApp.(tui.App).CurrentView())
}

func TestApp_QuitOnQ(t *testing.T) {
	app := tui.NewApp(nil)

	newModel, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, newModel)
	require.NotNil(t, cmd)

	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestApp_HelpToggles(t *testing.T) {
	app := tui.NewApp(nil)

	newApp, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Contains(t, newApp.View(), "Navigation:")

	newApp, _ = newApp.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotContains(t, newApp.View(), "Navigation:")
}

func TestApp_ViewWithoutServiceShowsHint(t *testing.T) {
	app := tui.NewApp(nil)

	view := app.View()
	assert.Contains(t, view, "cmm path set")
}

func TestApp_ErrorMsgShown(t *testing.T) {
	app := tui.NewApp(nil)

	newApp, _ := app.Update(tui.ErrorMsg{Err: domain.ErrCrossVolume})
	assert.Contains(t, newApp.View(), "different volumes")
}

// Integration tests drive the app against a real service on temp folders.

type fixture struct {
	svc      *core.Service
	modsPath string
	disabled string
	sources  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	base := t.TempDir()
	modsPath := filepath.Join(base, "civ", "Mods")

	svc, err := core.NewService(core.ServiceConfig{
		ConfigDir: filepath.Join(base, "config"),
		ModsPath:  modsPath,
		Platform:  "linux",
		HomeDir:   base,
	})
	require.NoError(t, err)

	return fixture{
		svc:      svc,
		modsPath: modsPath,
		disabled: filepath.Join(base, "civ", domain.DisabledModsFolder),
		sources:  filepath.Join(base, "downloads"),
	}
}

func writeModFolder(t *testing.T, dir, id, version, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	modinfo := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<Mod id="%s" version="%s" xmlns="ModInfo">
  <Properties>
    <Name>%s</Name>
    <Authors>Test Author</Authors>
  </Properties>
</Mod>
`, id, version, name)
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".modinfo"), []byte(modinfo), 0644))
}

// drain runs cmd and feeds each resulting message back into the app until
// no further command is returned.
func drain(t *testing.T, app tea.Model, cmd tea.Cmd) tui.App {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		require.Less(t, i, 20, "command chain did not settle")
		app, cmd = app.Update(cmd())
	}
	return app.(tui.App)
}

func press(app tea.Model, keys ...tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		app, cmd = app.Update(k)
	}
	return app, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_InitScansMods(t *testing.T) {
	f := newFixture(t)
	writeModFolder(t, filepath.Join(f.modsPath, "better-ui"), "better-ui", "1.0", "Better UI")
	writeModFolder(t, filepath.Join(f.disabled, "map-pack"), "map-pack", "2.0", "Map Pack")

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	require.NoError(t, app.Err())
	assert.Equal(t, 2, app.Installed().ModCount())
	view := app.View()
	assert.Contains(t, view, "Better UI")
	assert.Contains(t, view, "Map Pack")
	assert.Contains(t, view, f.modsPath)
}

func TestApp_ToggleMovesFolder(t *testing.T) {
	f := newFixture(t)
	writeModFolder(t, filepath.Join(f.modsPath, "better-ui"), "better-ui", "1.0", "Better UI")

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	// space emits ToggleModMsg; the chain runs the toggle and rescans
	model, cmd := press(app, tea.KeyMsg{Type: tea.KeySpace})
	app = drain(t, model, cmd)

	require.NoError(t, app.Err())
	assert.Equal(t, "Disabled Better UI", app.Status())
	assert.DirExists(t, filepath.Join(f.disabled, "better-ui"))
	assert.NoDirExists(t, filepath.Join(f.modsPath, "better-ui"))

	mod := app.Installed().SelectedMod()
	require.NotNil(t, mod)
	assert.False(t, mod.Enabled)
}

func TestApp_DeleteAsksFirst(t *testing.T) {
	f := newFixture(t)
	writeModFolder(t, filepath.Join(f.modsPath, "better-ui"), "better-ui", "1.0", "Better UI")

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	model, cmd := press(app, runes("d"))
	app = drain(t, model, cmd)
	assert.Contains(t, app.View(), "Delete Better UI?")

	// Declining keeps the folder
	model, cmd = press(app, runes("n"))
	app = drain(t, model, cmd)
	assert.DirExists(t, filepath.Join(f.modsPath, "better-ui"))
	assert.Equal(t, "Delete cancelled", app.Status())

	model, cmd = press(app, runes("d"))
	app = drain(t, model, cmd)
	model, cmd = press(app, runes("y"))
	app = drain(t, model, cmd)

	require.NoError(t, app.Err())
	assert.NoDirExists(t, filepath.Join(f.modsPath, "better-ui"))
	assert.Equal(t, 0, app.Installed().ModCount())
}

func TestApp_InstallAndOverwrite(t *testing.T) {
	f := newFixture(t)
	source := filepath.Join(f.sources, "better-ui")
	writeModFolder(t, source, "better-ui", "1.0", "Better UI")

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	// i opens the prompt; the focus command only drives the cursor blink
	model, _ := press(app, runes("i"))
	model, _ = press(model, runes(source))
	model, cmd := press(model, tea.KeyMsg{Type: tea.KeyEnter})
	app = drain(t, model, cmd)

	require.NoError(t, app.Err())
	assert.Equal(t, "Installed better-ui v1.0", app.Status())
	assert.Equal(t, 1, app.Installed().ModCount())
	assert.FileExists(t, filepath.Join(f.modsPath, "better-ui", "better-ui.modinfo"))

	// Same folder name again, newer version
	writeModFolder(t, source, "better-ui", "1.1", "Better UI")
	model, _ = press(app, runes("i"))
	model, _ = press(model, runes(source))
	model, cmd = press(model, tea.KeyMsg{Type: tea.KeyEnter})
	app = drain(t, model, cmd)

	assert.Contains(t, app.View(), "already installed (enabled) 1.0 -> 1.1 (upgrade)")

	model, cmd = press(app, runes("y"))
	app = drain(t, model, cmd)

	require.NoError(t, app.Err())
	assert.Contains(t, app.Status(), "replaced existing copy")
	assert.Equal(t, "1.1", app.Installed().SelectedMod().Version)
}

func TestApp_InstallErrorShown(t *testing.T) {
	f := newFixture(t)
	source := filepath.Join(f.sources, "not-a-mod")
	require.NoError(t, os.MkdirAll(source, 0755))

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	model, _ := press(app, runes("i"))
	model, _ = press(model, runes(source))
	model, cmd := press(model, tea.KeyMsg{Type: tea.KeyEnter})
	app = drain(t, model, cmd)

	require.ErrorIs(t, app.Err(), domain.ErrNoDescriptor)
	assert.Contains(t, app.View(), "no .modinfo file found")
	assert.NoDirExists(t, filepath.Join(f.modsPath, "not-a-mod"))
}

func TestApp_SettingsSaved(t *testing.T) {
	f := newFixture(t)

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	model, _ := press(app, runes("2"))
	model, cmd := press(model, tea.KeyMsg{Type: tea.KeyEnter})
	app = drain(t, model, cmd)

	require.NoError(t, app.Err())
	assert.Equal(t, "Settings saved", app.Status())
	assert.Equal(t, domain.LinkHardlink, f.svc.Config().LinkMethod)
}

func TestApp_SettingsExtractOptionsSaved(t *testing.T) {
	f := newFixture(t)

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	model, _ := press(app, runes("2"), runes("j"), runes("j"))
	model, cmd := press(model, tea.KeyMsg{Type: tea.KeyEnter})
	app = drain(t, model, cmd)
	require.NoError(t, app.Err())
	assert.Equal(t, 600, f.svc.Config().Extract.TimeoutSeconds)

	model, _ = press(app, runes("j"))
	model, cmd = press(model, tea.KeyMsg{Type: tea.KeyEnter})
	app = drain(t, model, cmd)
	require.NoError(t, app.Err())
	assert.False(t, f.svc.Config().Extract.BuiltinZipEnabled())
	assert.Equal(t, 600, f.svc.Config().Extract.TimeoutSeconds, "earlier change is kept")
}

func TestApp_SettingsEditModsPath(t *testing.T) {
	f := newFixture(t)
	// q, i and 1 would be shortcuts outside the text field
	custom := filepath.Join(t.TempDir(), "quick1", "Mods")
	require.NoError(t, os.MkdirAll(custom, 0755))

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	// Enter on the last row opens the field; its focus command only drives the cursor blink
	model, _ := press(app, runes("2"), runes("G"), tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = press(model, runes(custom))
	model, cmd := press(model, tea.KeyMsg{Type: tea.KeyEnter})
	app = drain(t, model, cmd)

	require.NoError(t, app.Err())
	assert.Equal(t, tui.ViewSettings, app.CurrentView())
	assert.Equal(t, "Mods folder set to "+custom, app.Status())
	saved, err := f.svc.CustomModsPath()
	require.NoError(t, err)
	assert.Equal(t, custom, saved)
	assert.Contains(t, app.View(), "Mods folder: "+custom)

	model, cmd = press(app, runes("d"))
	app = drain(t, model, cmd)

	require.NoError(t, app.Err())
	assert.Equal(t, "Mods folder reset to the platform default", app.Status())
	saved, err = f.svc.CustomModsPath()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestApp_SettingsEditModsPathMissingFolder(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(t.TempDir(), "nope")

	app := tui.NewApp(f.svc)
	app = drain(t, app, app.Init())

	model, _ := press(app, runes("2"), runes("G"), tea.KeyMsg{Type: tea.KeyEnter})
	model, _ = press(model, runes(missing))
	model, cmd := press(model, tea.KeyMsg{Type: tea.KeyEnter})
	app = drain(t, model, cmd)

	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "Error:")
	saved, err := f.svc.CustomModsPath()
	require.NoError(t, err)
	assert.Empty(t, saved)
}
