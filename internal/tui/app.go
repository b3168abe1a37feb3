package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DonovanMods/civ-mod-manager/internal/core"
	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/tui/views"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ViewType represents different screens in the TUI
type ViewType int

const (
	ViewInstalled ViewType = iota
	ViewSettings
)

// inputMode is what the app is waiting for from the keyboard
type inputMode int

const (
	modeBrowse inputMode = iota
	modeInstallPrompt
	modeConfirmDelete
	modeConfirmOverwrite
	modeHelp
)

// NavigateMsg is sent to change views
type NavigateMsg struct {
	View ViewType
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// modsLoadedMsg carries the result of an inventory scan
type modsLoadedMsg struct {
	mods     []domain.InstalledMod
	modsPath string
	err      error
}

// actionDoneMsg is sent when a toggle or delete finishes
type actionDoneMsg struct {
	status string
	err    error
}

// installDoneMsg is sent when an install attempt finishes.
// collision is set when the folder name was already taken.
type installDoneMsg struct {
	source    string
	result    *core.InstallResult
	collision *domain.Collision
	err       error
}

// App is the main TUI application model
type App struct {
	service     *core.Service
	keys        *KeyMap
	refresh     *refresher
	currentView ViewType
	mode        inputMode
	width       int
	height      int
	err         error
	status      string

	installed views.Installed
	settings  views.Settings
	input     textinput.Model

	pendingDelete  *domain.InstalledMod
	pendingInstall *installDoneMsg
}

// NewApp creates a new TUI application
func NewApp(service *core.Service) App {
	keybindings := ""
	settings := views.SettingsData{BuiltinZip: true}
	var loadErr error
	if service != nil {
		cfg := service.Config()
		keybindings = cfg.Keybindings
		settings.LinkMethod = cfg.LinkMethod
		settings.ExtractTimeout = cfg.Extract.TimeoutSeconds
		settings.BuiltinZip = cfg.Extract.BuiltinZipEnabled()
		settings.CustomModsPath, loadErr = service.CustomModsPath()
	}
	keys := NewKeyMap(keybindings)
	settings.Keybindings = keys.Mode()

	input := textinput.New()
	input.Placeholder = "/path/to/mod.zip or mod folder"
	input.CharLimit = 4096
	input.Width = 60

	refresh, err := newRefresher()
	if err == nil {
		err = loadErr
	}

	return App{
		service:     service,
		keys:        keys,
		refresh:     refresh,
		currentView: ViewInstalled,
		width:       80,
		height:      24,
		err:         err,
		installed:   views.NewInstalled(keys),
		settings:    views.NewSettings(keys, settings),
		input:       input,
	}
}

// CurrentView returns the current view type
func (a App) CurrentView() ViewType {
	return a.currentView
}

// Installed returns the installed mods view
func (a App) Installed() views.Installed {
	return a.installed
}

// Status returns the last status line
func (a App) Status() string {
	return a.status
}

// Err returns the last error shown to the user
func (a App) Err() error {
	return a.err
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	return a.requestRefresh()
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		model, _ := a.installed.Update(msg)
		a.installed = model.(views.Installed)
		model, _ = a.settings.Update(msg)
		a.settings = model.(views.Settings)
		return a, nil

	case NavigateMsg:
		a.currentView = msg.View
		return a, nil

	case ErrorMsg:
		a.err = msg.Err
		return a, nil

	case modsLoadedMsg:
		return a.handleModsLoaded(msg)

	case actionDoneMsg:
		if msg.err != nil {
			a.err = msg.err
			a.status = ""
		} else {
			a.err = nil
			a.status = msg.status
		}
		return a, a.requestRefresh()

	case installDoneMsg:
		return a.handleInstallDone(msg)

	case views.ToggleModMsg:
		return a, a.toggleCmd(msg.Mod)

	case views.DeleteModMsg:
		mod := msg.Mod
		a.pendingDelete = &mod
		a.mode = modeConfirmDelete
		return a, nil

	case views.SettingsChangedMsg:
		return a.applySettings(msg.Settings)

	case views.ModsPathChangedMsg:
		return a.applyModsPath(msg.Path)
	}

	return a.updateCurrentView(msg)
}

func (a App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case modeInstallPrompt:
		return a.handleInstallPrompt(msg)

	case modeConfirmDelete:
		return a.handleConfirmDelete(msg)

	case modeConfirmOverwrite:
		return a.handleConfirmOverwrite(msg)

	case modeHelp:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		a.mode = modeBrowse
		return a, nil
	}

	// Any key dismisses the last error
	a.err = nil

	// The mods folder field takes every key while it is being typed in
	if a.currentView == ViewSettings && a.settings.Editing() {
		return a.updateCurrentView(msg)
	}

	switch {
	case a.keys.IsQuit(msg):
		return a, tea.Quit

	case a.keys.IsHelp(msg):
		a.mode = modeHelp
		return a, nil

	case msg.String() == "1":
		a.currentView = ViewInstalled
		return a, nil

	case msg.String() == "2":
		a.currentView = ViewSettings
		return a, nil

	case a.keys.IsInstall(msg):
		if a.service == nil {
			return a, nil
		}
		a.currentView = ViewInstalled
		a.mode = modeInstallPrompt
		a.input.Reset()
		return a, a.input.Focus()

	case a.keys.IsRefresh(msg):
		a.status = ""
		return a, a.requestRefresh()
	}

	return a.updateCurrentView(msg)
}

func (a App) handleInstallPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.IsCancel(msg):
		a.mode = modeBrowse
		a.input.Blur()
		return a, nil

	case a.keys.IsConfirm(msg):
		a.mode = modeBrowse
		a.input.Blur()
		source := strings.TrimSpace(a.input.Value())
		if source == "" {
			return a, nil
		}
		a.status = fmt.Sprintf("Installing %s...", source)
		return a, a.installCmd(source, false)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.IsYes(msg):
		mod := *a.pendingDelete
		a.pendingDelete = nil
		a.mode = modeBrowse
		return a, a.deleteCmd(mod)

	case a.keys.IsNo(msg):
		a.pendingDelete = nil
		a.mode = modeBrowse
		a.status = "Delete cancelled"
	}
	return a, nil
}

func (a App) handleConfirmOverwrite(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.keys.IsYes(msg):
		source := a.pendingInstall.source
		a.pendingInstall = nil
		a.mode = modeBrowse
		a.status = fmt.Sprintf("Installing %s...", source)
		return a, a.installCmd(source, true)

	case a.keys.IsNo(msg):
		a.pendingInstall = nil
		a.mode = modeBrowse
		a.status = "Installation cancelled"
	}
	return a, nil
}

func (a App) handleModsLoaded(msg modsLoadedMsg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if a.refresh != nil && a.refresh.Done() {
		next = a.scanCmd()
	}

	if msg.err != nil {
		a.err = msg.err
		return a, next
	}

	a.installed = a.installed.WithMods(msg.modsPath, msg.mods)
	a.settings = a.settings.WithModsPath(msg.modsPath)
	return a, next
}

func (a App) handleInstallDone(msg installDoneMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, domain.ErrCancelled) && msg.collision != nil {
		a.pendingInstall = &msg
		a.mode = modeConfirmOverwrite
		a.status = ""
		return a, nil
	}

	if msg.err != nil {
		a.err = msg.err
		a.status = ""
		return a, nil
	}

	a.err = nil
	a.status = fmt.Sprintf("Installed %s", msg.result.Name)
	if msg.result.Mod != nil && msg.result.Mod.Version != "" {
		a.status += " v" + msg.result.Mod.Version
	}
	if msg.result.Replaced {
		a.status += " (replaced existing copy)"
	}
	return a, a.requestRefresh()
}

func (a App) applySettings(data views.SettingsData) (tea.Model, tea.Cmd) {
	a.keys = NewKeyMap(data.Keybindings)
	a.installed = a.installed.WithKeys(a.keys)
	a.settings = a.settings.WithKeys(a.keys)

	if a.service == nil {
		return a, nil
	}

	cfg := *a.service.Config()
	cfg.LinkMethod = data.LinkMethod
	cfg.Keybindings = data.Keybindings
	cfg.Extract.TimeoutSeconds = data.ExtractTimeout
	builtinZip := data.BuiltinZip
	cfg.Extract.BuiltinZip = &builtinZip
	if err := a.service.SaveConfig(&cfg); err != nil {
		a.err = err
		return a, nil
	}
	a.status = "Settings saved"
	return a, nil
}

// applyModsPath saves or clears the custom mods folder and rescans
func (a App) applyModsPath(path string) (tea.Model, tea.Cmd) {
	if a.service == nil {
		return a, nil
	}

	if path == "" {
		if err := a.service.ClearCustomModsPath(); err != nil {
			a.err = err
			return a, nil
		}
		a.settings = a.settings.WithCustomModsPath("")
		a.status = "Mods folder reset to the platform default"
		return a, a.requestRefresh()
	}

	saved, err := a.service.SetCustomModsPath(path)
	if err != nil {
		a.err = err
		a.status = ""
		return a, nil
	}
	a.settings = a.settings.WithCustomModsPath(saved)
	a.status = "Mods folder set to " + saved
	return a, a.requestRefresh()
}

func (a App) updateCurrentView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var model tea.Model
	var cmd tea.Cmd

	switch a.currentView {
	case ViewInstalled:
		model, cmd = a.installed.Update(msg)
		a.installed = model.(views.Installed)
	case ViewSettings:
		model, cmd = a.settings.Update(msg)
		a.settings = model.(views.Settings)
	}

	return a, cmd
}

// requestRefresh starts a scan unless one is already running, in which case
// a single follow-up scan is queued.
func (a App) requestRefresh() tea.Cmd {
	if a.service == nil || a.refresh == nil {
		return nil
	}
	if !a.refresh.Request() {
		return nil
	}
	return a.scanCmd()
}

func (a App) scanCmd() tea.Cmd {
	svc := a.service
	return func() tea.Msg {
		roots, err := svc.Roots()
		if err != nil {
			return modsLoadedMsg{err: err}
		}
		mods, err := svc.Scan(context.Background())
		return modsLoadedMsg{mods: mods, modsPath: roots.Active, err: err}
	}
}

func (a App) toggleCmd(mod domain.InstalledMod) tea.Cmd {
	svc := a.service
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		if err := svc.Toggle(context.Background(), mod.Folder, mod.Enabled); err != nil {
			return actionDoneMsg{err: err}
		}
		if mod.Enabled {
			return actionDoneMsg{status: fmt.Sprintf("Disabled %s", mod.Name)}
		}
		return actionDoneMsg{status: fmt.Sprintf("Enabled %s", mod.Name)}
	}
}

func (a App) deleteCmd(mod domain.InstalledMod) tea.Cmd {
	svc := a.service
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		if err := svc.Delete(context.Background(), mod.Folder, mod.Enabled); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{status: fmt.Sprintf("Deleted %s", mod.Name)}
	}
}

// installCmd runs an install. The confirm callback records the collision and
// answers with overwrite, so a first attempt on a taken name comes back
// cancelled and the user is asked before retrying.
func (a App) installCmd(source string, overwrite bool) tea.Cmd {
	svc := a.service
	return func() tea.Msg {
		var collision *domain.Collision
		confirm := func(c domain.Collision) bool {
			collision = &c
			return overwrite
		}
		result, err := svc.Install(context.Background(), source, confirm)
		return installDoneMsg{source: source, result: result, collision: collision, err: err}
	}
}

// View implements tea.Model
func (a App) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	activeTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")).
		Bold(true)

	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	header := titleStyle.Render("cmm - Civilization VII Mod Manager")

	tabs := []string{"[1]Installed", "[2]Settings"}
	tabBar := ""
	for i, tab := range tabs {
		if ViewType(i) == a.currentView {
			tabBar += activeTabStyle.Render(tab) + "  "
		} else {
			tabBar += tabStyle.Render(tab) + "  "
		}
	}

	content := a.renderCurrentView()

	switch a.mode {
	case modeHelp:
		content = a.keys.FullHelp()
	case modeInstallPrompt:
		content += "\n\n" + promptStyle.Render("Install from:") + "\n" + a.input.View()
	case modeConfirmDelete:
		content += "\n\n" + promptStyle.Render(fmt.Sprintf("Delete %s? This cannot be undone. (y/n)", a.pendingDelete.Name))
	case modeConfirmOverwrite:
		content += "\n\n" + promptStyle.Render(overwritePrompt(*a.pendingInstall.collision))
	}

	if a.err != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
		content += "\n\n" + errStyle.Render(fmt.Sprintf("Error: %v", a.err))
	}

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	footer := footerStyle.Render("q: quit  ?: help")
	if a.status != "" {
		footer = footerStyle.Render(a.status + "  |  q: quit  ?: help")
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", header, tabBar, content, footer)
}

func (a App) renderCurrentView() string {
	switch a.currentView {
	case ViewInstalled:
		if a.service == nil {
			return "Installed Mods\n\nNo mods folder configured. Set one with:\n  cmm path set /path/to/Mods"
		}
		return a.installed.View()

	case ViewSettings:
		return a.settings.View()

	default:
		return "Unknown view"
	}
}

func overwritePrompt(c domain.Collision) string {
	where := "disabled"
	if c.ExistingEnabled {
		where = "enabled"
	}

	versions := ""
	if c.ExistingVersion != "" || c.IncomingVersion != "" {
		versions = fmt.Sprintf(" %s -> %s", orUnknown(c.ExistingVersion), orUnknown(c.IncomingVersion))
		if change := c.Change(); change != "" {
			versions += " (" + change + ")"
		}
	}

	return fmt.Sprintf("%s is already installed (%s)%s. Overwrite? (y/n)", c.Name, where, versions)
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// Run starts the TUI application
func Run(service *core.Service) error {
	app := NewApp(service)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
