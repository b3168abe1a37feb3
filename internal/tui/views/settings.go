package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"
	"github.com/DonovanMods/civ-mod-manager/internal/storage/config"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SettingsData holds the values edited on the settings screen
type SettingsData struct {
	LinkMethod     domain.LinkMethod
	Keybindings    string
	ExtractTimeout int // Seconds; 0 selects the default
	BuiltinZip     bool
	CustomModsPath string // Saved override; empty means the platform default
	ModsPath       string // Mods folder in use after the last scan
}

// SettingsChangedMsg is sent when a config.yaml value changes
type SettingsChangedMsg struct {
	Settings SettingsData
}

// ModsPathChangedMsg asks for the custom mods folder to be saved.
// An empty Path clears it.
type ModsPathChangedMsg struct {
	Path string
}

type settingField int

const (
	fieldLinkMethod settingField = iota
	fieldKeybindings
	fieldExtractTimeout
	fieldBuiltinZip
	fieldModsPath
)

var settingFields = []settingField{
	fieldLinkMethod,
	fieldKeybindings,
	fieldExtractTimeout,
	fieldBuiltinZip,
	fieldModsPath,
}

var (
	linkMethodChoices  = []domain.LinkMethod{domain.LinkCopy, domain.LinkHardlink}
	keybindingChoices  = []string{"vim", "standard"}
	timeoutChoices     = []int{60, 120, 300, 600, 1800} // seconds
	defaultTimeoutSecs = int(config.DefaultExtractTimeout / time.Second)
)

func (f settingField) label() string {
	switch f {
	case fieldLinkMethod:
		return "Link method"
	case fieldKeybindings:
		return "Keybindings"
	case fieldExtractTimeout:
		return "Extraction timeout"
	case fieldBuiltinZip:
		return "Built-in zip fallback"
	default:
		return "Mods folder"
	}
}

func (f settingField) help() string {
	switch f {
	case fieldLinkMethod:
		return "How installed files are written into the mods folder"
	case fieldKeybindings:
		return "Keyboard navigation style"
	case fieldExtractTimeout:
		return "How long an external unpacking tool may run"
	case fieldBuiltinZip:
		return "Unpack .zip files in-process when no tool is installed"
	default:
		return "enter: edit  d: reset to the platform default"
	}
}

// Settings edits config.yaml values and the custom mods folder
type Settings struct {
	keys     Navigator
	data     SettingsData
	selected int
	editing  bool
	input    textinput.Model
	width    int
	height   int
}

// NewSettings creates the settings view
func NewSettings(keys Navigator, data SettingsData) Settings {
	input := textinput.New()
	input.CharLimit = 4096
	input.Width = 60

	return Settings{
		keys:   keys,
		data:   data,
		input:  input,
		width:  80,
		height: 24,
	}
}

// Selected returns the index of the highlighted setting
func (s Settings) Selected() int {
	return s.selected
}

// CurrentSettings returns the values as edited so far
func (s Settings) CurrentSettings() SettingsData {
	return s.data
}

// Editing reports whether the mods folder is being typed in.
// Every key belongs to the view while this is true.
func (s Settings) Editing() bool {
	return s.editing
}

// WithKeys swaps the keybindings after a settings change
func (s Settings) WithKeys(keys Navigator) Settings {
	s.keys = keys
	return s
}

// WithModsPath records the mods folder found by the last scan
func (s Settings) WithModsPath(path string) Settings {
	s.data.ModsPath = path
	return s
}

// WithCustomModsPath records the saved override
func (s Settings) WithCustomModsPath(path string) Settings {
	s.data.CustomModsPath = path
	return s
}

// Init implements tea.Model
func (s Settings) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (s Settings) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s.editing {
			return s.updateEditing(msg)
		}
		return s.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s Settings) field() settingField {
	return settingFields[s.selected]
}

func (s Settings) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if s.keys == nil {
		return s, nil
	}

	n := len(settingFields)
	switch {
	case s.keys.IsUp(msg):
		s.selected = (s.selected - 1 + n) % n
	case s.keys.IsDown(msg):
		s.selected = (s.selected + 1) % n
	case s.keys.IsHome(msg):
		s.selected = 0
	case s.keys.IsEnd(msg):
		s.selected = n - 1
	case s.keys.IsRight(msg), s.keys.IsToggle(msg):
		return s.change(1)
	case s.keys.IsLeft(msg):
		return s.change(-1)
	case s.keys.IsConfirm(msg):
		if s.field() == fieldModsPath {
			return s.startEditing()
		}
		return s.change(1)
	case s.keys.IsDelete(msg):
		if s.field() == fieldModsPath && s.data.CustomModsPath != "" {
			return s, modsPathChanged("")
		}
	}
	return s, nil
}

// change steps the selected setting by delta and reports the new values
func (s Settings) change(delta int) (tea.Model, tea.Cmd) {
	switch s.field() {
	case fieldLinkMethod:
		s.data.LinkMethod = step(linkMethodChoices, s.data.LinkMethod, delta)
	case fieldKeybindings:
		s.data.Keybindings = step(keybindingChoices, s.data.Keybindings, delta)
	case fieldExtractTimeout:
		s.data.ExtractTimeout = step(timeoutChoices, s.timeoutSeconds(), delta)
	case fieldBuiltinZip:
		s.data.BuiltinZip = !s.data.BuiltinZip
	default:
		return s, nil
	}

	data := s.data
	return s, func() tea.Msg {
		return SettingsChangedMsg{Settings: data}
	}
}

// step moves delta places through options from current, wrapping around.
// A current value outside options lands on the first option.
func step[T comparable](options []T, current T, delta int) T {
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	n := len(options)
	return options[((i+delta)%n+n)%n]
}

func (s Settings) timeoutSeconds() int {
	if s.data.ExtractTimeout <= 0 {
		return defaultTimeoutSecs
	}
	return s.data.ExtractTimeout
}

func (s Settings) startEditing() (tea.Model, tea.Cmd) {
	s.editing = true
	s.input.Placeholder = s.data.ModsPath
	s.input.SetValue(s.data.CustomModsPath)
	s.input.CursorEnd()
	return s, s.input.Focus()
}

func (s Settings) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case s.keys.IsCancel(msg):
		s.editing = false
		s.input.Blur()
		return s, nil

	case s.keys.IsConfirm(msg):
		s.editing = false
		s.input.Blur()
		path := strings.TrimSpace(s.input.Value())
		if path == "" || path == s.data.CustomModsPath {
			return s, nil
		}
		return s, modsPathChanged(path)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func modsPathChanged(path string) tea.Cmd {
	return func() tea.Msg {
		return ModsPathChangedMsg{Path: path}
	}
}

func (s Settings) value(f settingField) string {
	switch f {
	case fieldLinkMethod:
		return s.data.LinkMethod.String()
	case fieldKeybindings:
		return s.data.Keybindings
	case fieldExtractTimeout:
		return formatTimeout(s.timeoutSeconds())
	case fieldBuiltinZip:
		if s.data.BuiltinZip {
			return "on"
		}
		return "off"
	default:
		if s.data.CustomModsPath == "" {
			return "platform default"
		}
		return s.data.CustomModsPath
	}
}

func (s Settings) choices(f settingField) []string {
	switch f {
	case fieldLinkMethod:
		out := make([]string, len(linkMethodChoices))
		for i, m := range linkMethodChoices {
			out[i] = m.String()
		}
		return out
	case fieldKeybindings:
		return keybindingChoices
	case fieldExtractTimeout:
		out := make([]string, len(timeoutChoices))
		for i, secs := range timeoutChoices {
			out[i] = formatTimeout(secs)
		}
		return out
	case fieldBuiltinZip:
		return []string{"on", "off"}
	default:
		return nil
	}
}

func formatTimeout(secs int) string {
	if secs%60 == 0 {
		return fmt.Sprintf("%d min", secs/60)
	}
	return fmt.Sprintf("%d s", secs)
}

// View implements tea.Model
func (s Settings) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("69")).
		MarginBottom(1)

	rowStyle := lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle := rowStyle.Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).PaddingLeft(4)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	currentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings") + "\n\n")

	for i, f := range settingFields {
		if i != s.selected {
			b.WriteString(rowStyle.Render(fmt.Sprintf("  %s: %s", f.label(), valueStyle.Render(s.value(f)))) + "\n")
			continue
		}

		b.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s: %s", f.label(), valueStyle.Render(s.value(f)))) + "\n")
		b.WriteString(dimStyle.Render(f.help()) + "\n")

		if opts := s.choices(f); len(opts) > 0 {
			current := s.value(f)
			parts := make([]string, len(opts))
			for j, opt := range opts {
				if opt == current {
					parts[j] = currentStyle.Render("[" + opt + "]")
				} else {
					parts[j] = " " + opt + " "
				}
			}
			b.WriteString(dimStyle.Render("Options: "+strings.Join(parts, "")) + "\n")
		}

		if f == fieldModsPath {
			if s.data.ModsPath != "" {
				b.WriteString(dimStyle.Render("In use: "+s.data.ModsPath) + "\n")
			}
			if s.editing {
				b.WriteString("    " + s.input.View() + "\n")
			}
		}
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	help := "↑/↓: navigate  ←/→ or enter: change value"
	if s.editing {
		help = "enter: save folder  esc: cancel"
	}
	b.WriteString("\n" + helpStyle.Render(help))

	return b.String()
}
