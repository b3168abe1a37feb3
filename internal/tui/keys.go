package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines keybindings for the TUI
type KeyMap struct {
	mode string
}

// NewKeyMap creates a new keymap for the given mode
func NewKeyMap(mode string) *KeyMap {
	if mode == "" {
		mode = "vim"
	}
	return &KeyMap{mode: mode}
}

// Mode returns the current keybinding mode
func (k *KeyMap) Mode() string {
	return k.mode
}

// IsUp returns true if the key is an "up" navigation key
func (k *KeyMap) IsUp(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyUp {
		return true
	}
	return k.mode == "vim" && msg.String() == "k"
}

// IsDown returns true if the key is a "down" navigation key
func (k *KeyMap) IsDown(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyDown {
		return true
	}
	return k.mode == "vim" && msg.String() == "j"
}

// IsLeft returns true if the key is a "left" navigation key
func (k *KeyMap) IsLeft(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyLeft {
		return true
	}
	return k.mode == "vim" && msg.String() == "h"
}

// IsRight returns true if the key is a "right" navigation key
func (k *KeyMap) IsRight(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyRight {
		return true
	}
	return k.mode == "vim" && msg.String() == "l"
}

// IsHome returns true if the key should go to first item
func (k *KeyMap) IsHome(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyHome {
		return true
	}
	return k.mode == "vim" && msg.String() == "g"
}

// IsEnd returns true if the key should go to last item
func (k *KeyMap) IsEnd(msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyEnd {
		return true
	}
	return k.mode == "vim" && msg.String() == "G"
}

// IsConfirm returns true if the key is a confirm/select key
func (k *KeyMap) IsConfirm(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEnter
}

// IsToggle returns true if the key enables or disables the selected mod
func (k *KeyMap) IsToggle(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeySpace || msg.String() == " "
}

// IsCancel returns true if the key is a cancel/back key
func (k *KeyMap) IsCancel(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyEsc
}

// IsQuit returns true if the key is a quit key
func (k *KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return msg.String() == "q" || msg.Type == tea.KeyCtrlC
}

// IsHelp returns true if the key should show help
func (k *KeyMap) IsHelp(msg tea.KeyMsg) bool {
	return msg.String() == "?"
}

// IsDelete returns true if the key is a delete key
func (k *KeyMap) IsDelete(msg tea.KeyMsg) bool {
	return msg.String() == "d" || msg.Type == tea.KeyDelete
}

// IsInstall returns true if the key should open the install prompt
func (k *KeyMap) IsInstall(msg tea.KeyMsg) bool {
	return msg.String() == "i"
}

// IsRefresh returns true if the key should rescan the mods folders
func (k *KeyMap) IsRefresh(msg tea.KeyMsg) bool {
	return msg.String() == "r" || msg.Type == tea.KeyF5
}

// IsYes returns true if the key answers a yes/no question with yes
func (k *KeyMap) IsYes(msg tea.KeyMsg) bool {
	return msg.String() == "y" || msg.String() == "Y"
}

// IsNo returns true if the key answers a yes/no question with no
func (k *KeyMap) IsNo(msg tea.KeyMsg) bool {
	return msg.String() == "n" || msg.String() == "N" || k.IsCancel(msg)
}

// NavigationHelp returns help text for navigation keys
func (k *KeyMap) NavigationHelp() string {
	if k.mode == "vim" {
		return "j/k: navigate  h/l: change"
	}
	return "↑/↓: navigate  ←/→: change"
}

// FullHelp returns complete help text
func (k *KeyMap) FullHelp() string {
	if k.mode == "vim" {
		return `Navigation:
  j/k     Move down/up
  h/l     Change value (in settings)
  enter   Edit mods folder (in settings)
  g/G     Go to first/last item
  1/2     Installed mods / Settings

Actions:
  space   Enable/Disable
  d       Delete (resets mods folder in settings)
  i       Install a folder or archive
  r       Rescan mods folders
  ?       Help
  q       Quit`
	}

	return `Navigation:
  ↑/↓     Move up/down
  ←/→     Change value (in settings)
  Enter   Edit mods folder (in settings)
  Home    Go to first item
  End     Go to last item
  1/2     Installed mods / Settings

Actions:
  Space   Enable/Disable
  Delete  Delete
  i       Install a folder or archive
  r/F5    Rescan mods folders
  ?       Help
  q       Quit`
}
