package views_test

import (
	"testing"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/tui"
	"github.com/DonovanMods/civ-mod-manager/internal/tui/views"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettings(data views.SettingsData) views.Settings {
	return views.NewSettings(tui.NewKeyMap("vim"), data)
}

// send feeds keys to the view and returns it with the last command
func send(s views.Settings, keys ...tea.KeyMsg) (views.Settings, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var model tea.Model
		model, cmd = s.Update(k)
		s = model.(views.Settings)
	}
	return s, cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSettings_InitialState(t *testing.T) {
	model := newSettings(views.SettingsData{LinkMethod: domain.LinkCopy, Keybindings: "vim"})

	assert.Equal(t, 0, model.Selected())
	assert.False(t, model.Editing())
	assert.NotEmpty(t, model.View())
}

func TestSettings_NavigateWraps(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim"})

	model, _ = send(model, keyDown)
	assert.Equal(t, 1, model.Selected())

	model, _ = send(model, typed("G"))
	assert.Equal(t, 4, model.Selected())

	model, _ = send(model, typed("j"))
	assert.Equal(t, 0, model.Selected())

	model, _ = send(model, typed("k"))
	assert.Equal(t, 4, model.Selected())
}

func TestSettings_CycleLinkMethod(t *testing.T) {
	model := newSettings(views.SettingsData{LinkMethod: domain.LinkCopy, Keybindings: "vim"})

	model, cmd := send(model, keyEnter)
	assert.Equal(t, domain.LinkHardlink, model.CurrentSettings().LinkMethod)

	require.NotNil(t, cmd)
	changeMsg, ok := cmd().(views.SettingsChangedMsg)
	require.True(t, ok)
	assert.Equal(t, domain.LinkHardlink, changeMsg.Settings.LinkMethod)
	assert.Equal(t, "vim", changeMsg.Settings.Keybindings)
}

func TestSettings_CycleKeybindings(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim"})

	model, _ = send(model, keyDown, keyEnter)
	assert.Equal(t, "standard", model.CurrentSettings().Keybindings)
}

func TestSettings_LeftRightCycle(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim"})

	model, _ = send(model, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, domain.LinkHardlink, model.CurrentSettings().LinkMethod)

	model, _ = send(model, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, domain.LinkCopy, model.CurrentSettings().LinkMethod)
}

func TestSettings_ExtractTimeout(t *testing.T) {
	// Zero means the five minute default
	model := newSettings(views.SettingsData{Keybindings: "vim"})
	model, _ = send(model, keyDown, keyDown)
	assert.Contains(t, model.View(), "Extraction timeout: 5 min")

	model, cmd := send(model, typed("l"))
	assert.Equal(t, 600, model.CurrentSettings().ExtractTimeout)
	require.NotNil(t, cmd)
	assert.Equal(t, 600, cmd().(views.SettingsChangedMsg).Settings.ExtractTimeout)

	model, _ = send(model, typed("l"), typed("l"))
	assert.Equal(t, 60, model.CurrentSettings().ExtractTimeout, "wraps to the shortest choice")

	model, _ = send(model, typed("h"))
	assert.Equal(t, 1800, model.CurrentSettings().ExtractTimeout)
}

func TestSettings_ExtractTimeoutOutsideChoices(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim", ExtractTimeout: 45})
	model, _ = send(model, keyDown, keyDown)
	assert.Contains(t, model.View(), "45 s")

	model, _ = send(model, keyEnter)
	assert.Equal(t, 60, model.CurrentSettings().ExtractTimeout)
}

func TestSettings_BuiltinZipToggles(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim", BuiltinZip: true})
	model, _ = send(model, keyDown, keyDown, keyDown)
	assert.Contains(t, model.View(), "Built-in zip fallback: on")

	model, cmd := send(model, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, model.CurrentSettings().BuiltinZip)
	require.NotNil(t, cmd)
	assert.False(t, cmd().(views.SettingsChangedMsg).Settings.BuiltinZip)

	model, _ = send(model, keyEnter)
	assert.True(t, model.CurrentSettings().BuiltinZip)
}

func TestSettings_EditModsPath(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim", ModsPath: "/games/civ/Mods"})
	model, _ = send(model, typed("G"))

	model, _ = send(model, keyEnter)
	require.True(t, model.Editing())

	// Navigation letters are text while editing
	model, _ = send(model, typed("/mods/jk"))
	assert.True(t, model.Editing())
	assert.Equal(t, 4, model.Selected())

	model, cmd := send(model, keyEnter)
	assert.False(t, model.Editing())
	require.NotNil(t, cmd)
	assert.Equal(t, views.ModsPathChangedMsg{Path: "/mods/jk"}, cmd())
}

func TestSettings_EditModsPathCancel(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim"})
	model, _ = send(model, typed("G"), keyEnter, typed("/elsewhere"))

	model, cmd := send(model, keyEsc)
	assert.False(t, model.Editing())
	assert.Nil(t, cmd)
	assert.Empty(t, model.CurrentSettings().CustomModsPath)
}

func TestSettings_EditModsPathUnchanged(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim", CustomModsPath: "/mine/Mods"})
	model, _ = send(model, typed("G"), keyEnter)

	// The field starts with the saved folder; confirming it again changes nothing
	_, cmd := send(model, keyEnter)
	assert.Nil(t, cmd)
}

func TestSettings_ResetModsPath(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim"})
	model, _ = send(model, typed("G"))

	_, cmd := send(model, typed("d"))
	assert.Nil(t, cmd, "nothing to reset without a saved folder")

	model = model.WithCustomModsPath("/mine/Mods")
	_, cmd = send(model, typed("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, views.ModsPathChangedMsg{Path: ""}, cmd())
}

func TestSettings_ViewContainsCurrentValues(t *testing.T) {
	model := newSettings(views.SettingsData{
		LinkMethod:     domain.LinkHardlink,
		Keybindings:    "standard",
		ExtractTimeout: 120,
		CustomModsPath: "/mine/Mods",
	}).WithModsPath("/games/civ/Mods")

	view := model.View()
	assert.Contains(t, view, "hardlink")
	assert.Contains(t, view, "standard")
	assert.Contains(t, view, "2 min")
	assert.Contains(t, view, "Built-in zip fallback: off")
	assert.Contains(t, view, "Mods folder: /mine/Mods")

	model, _ = send(model, typed("G"))
	view = model.View()
	assert.Contains(t, view, "In use: /games/civ/Mods")
	assert.Contains(t, view, "reset to the platform default")
}

func TestSettings_PlatformDefaultLabel(t *testing.T) {
	model := newSettings(views.SettingsData{Keybindings: "vim"})
	assert.Contains(t, model.View(), "Mods folder: platform default")
}

func TestSettings_NilKeysIgnoresInput(t *testing.T) {
	model := views.NewSettings(nil, views.SettingsData{})
	model, cmd := send(model, keyDown, keyEnter)
	assert.Equal(t, 0, model.Selected())
	assert.Nil(t, cmd)
}
