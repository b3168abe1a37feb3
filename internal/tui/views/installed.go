package views

import (
	"fmt"

	"github.com/DonovanMods/civ-mod-manager/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToggleModMsg is sent to enable/disable a mod
type ToggleModMsg struct {
	Mod domain.InstalledMod
}

// DeleteModMsg is sent to delete a mod
type DeleteModMsg struct {
	Mod domain.InstalledMod
}

// Installed is the installed mods view
type Installed struct {
	keys     Navigator
	modsPath string
	mods     []domain.InstalledMod
	loaded   bool
	selected int
	width    int
	height   int
}

// NewInstalled creates a new installed mods view
func NewInstalled(keys Navigator) Installed {
	return Installed{
		keys:   keys,
		width:  80,
		height: 24,
	}
}

// WithMods replaces the inventory, keeping the selection on the same folder when possible.
func (m Installed) WithMods(modsPath string, mods []domain.InstalledMod) Installed {
	var current string
	if mod := m.SelectedMod(); mod != nil {
		current = mod.Folder
	}

	m.modsPath = modsPath
	m.mods = mods
	m.loaded = true
	m.selected = 0
	for i, mod := range mods {
		if mod.Folder == current {
			m.selected = i
			break
		}
	}
	return m
}

// WithKeys switches the keybinding mode
func (m Installed) WithKeys(keys Navigator) Installed {
	m.keys = keys
	return m
}

// Selected returns the currently selected index
func (m Installed) Selected() int {
	return m.selected
}

// ModCount returns the number of installed mods
func (m Installed) ModCount() int {
	return len(m.mods)
}

// SelectedMod returns the currently selected mod
func (m Installed) SelectedMod() *domain.InstalledMod {
	if len(m.mods) == 0 || m.selected >= len(m.mods) {
		return nil
	}
	return &m.mods[m.selected]
}

// Init implements tea.Model
func (m Installed) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Installed) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m Installed) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.mods) == 0 || m.keys == nil {
		return m, nil
	}

	switch {
	case m.keys.IsUp(msg):
		m.selected--
		if m.selected < 0 {
			m.selected = len(m.mods) - 1
		}

	case m.keys.IsDown(msg):
		m.selected++
		if m.selected >= len(m.mods) {
			m.selected = 0
		}

	case m.keys.IsHome(msg):
		m.selected = 0

	case m.keys.IsEnd(msg):
		m.selected = len(m.mods) - 1

	case m.keys.IsToggle(msg):
		mod := *m.SelectedMod()
		return m, func() tea.Msg {
			return ToggleModMsg{Mod: mod}
		}

	case m.keys.IsDelete(msg):
		mod := *m.SelectedMod()
		return m, func() tea.Msg {
			return DeleteModMsg{Mod: mod}
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Installed) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("69")).
		MarginBottom(1)

	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	itemStyle := lipgloss.NewStyle().
		PaddingLeft(2)

	selectedStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("205")).
		Bold(true)

	disabledStyle := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("241"))

	detailStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		PaddingLeft(4)

	warnStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		PaddingLeft(4)

	output := titleStyle.Render("Installed Mods") + "\n"

	if !m.loaded {
		return output + itemStyle.Render("Scanning mods folders...") + "\n"
	}

	output += infoStyle.Render(fmt.Sprintf("Mods folder: %s", m.modsPath)) + "\n\n"

	if len(m.mods) == 0 {
		output += itemStyle.Render("No mods installed.") + "\n\n"
		output += infoStyle.Render("Press 'i' to install a mod folder or archive") + "\n"
		return output
	}

	enabled := 0
	for _, mod := range m.mods {
		if mod.Enabled {
			enabled++
		}
	}
	output += infoStyle.Render(fmt.Sprintf("%d mods (%d enabled):", len(m.mods), enabled)) + "\n\n"

	for i, mod := range m.mods {
		cursor := "  "
		style := itemStyle

		if i == m.selected {
			cursor = "▸ "
			style = selectedStyle
		} else if !mod.Enabled {
			style = disabledStyle
		}

		status := "[✓]"
		if !mod.Enabled {
			status = "[ ]"
		}

		line := fmt.Sprintf("%s%s %s", cursor, status, mod.Name)
		if mod.Version != "" {
			line += " v" + mod.Version
		}
		output += style.Render(line) + "\n"

		if i == m.selected {
			if mod.Authors != "" {
				output += detailStyle.Render(fmt.Sprintf("by %s", mod.Authors)) + "\n"
			}
			if mod.Description != "" {
				output += detailStyle.Render(mod.Description) + "\n"
			}
			folder := mod.Folder
			if mod.InSubfolder {
				folder += "/" + mod.SubfolderName
			}
			output += detailStyle.Render(fmt.Sprintf("Folder: %s  ID: %s", folder, mod.ID)) + "\n"
			if mod.AffectsSavedGames {
				output += warnStyle.Render("Affects saved games") + "\n"
			}
			output += "\n"
		}
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginTop(1)
	output += helpStyle.Render("space: enable/disable  d: delete  i: install  r: rescan")

	return output
}
