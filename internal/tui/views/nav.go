package views

import tea "github.com/charmbracelet/bubbletea"

// Navigator classifies the navigation keys of the active keybinding mode
type Navigator interface {
	IsUp(msg tea.KeyMsg) bool
	IsDown(msg tea.KeyMsg) bool
	IsLeft(msg tea.KeyMsg) bool
	IsRight(msg tea.KeyMsg) bool
	IsHome(msg tea.KeyMsg) bool
	IsEnd(msg tea.KeyMsg) bool
	IsConfirm(msg tea.KeyMsg) bool
	IsCancel(msg tea.KeyMsg) bool
	IsToggle(msg tea.KeyMsg) bool
	IsDelete(msg tea.KeyMsg) bool
}
