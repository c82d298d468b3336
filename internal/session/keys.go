package session

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keyboard bindings of every focus state.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	New         key.Binding
	NextFocus   key.Binding
	ToggleLists key.Binding
	Edit        key.Binding
	Copy        key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
}

// DefaultKeyMap returns the default vim-like bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("j/↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "select"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new conversation"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next focus"),
		),
		ToggleLists: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle list"),
		),
		Edit: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "edit input"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy message"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "stop editing"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "quit"),
		),
	}
}

// Hints returns the bindings worth advertising for a focus and input mode.
func (k KeyMap) Hints(f Focus, mode InputMode) []key.Binding {
	switch f {
	case FocusConversationList:
		return []key.Binding{k.Down, k.Up, k.Select, k.New, k.Edit, k.NextFocus, k.ToggleLists, k.Quit}
	case FocusModelSelect:
		return []key.Binding{k.Down, k.Up, k.Edit, k.NextFocus, k.ToggleLists, k.Quit}
	case FocusChat:
		return []key.Binding{k.Down, k.Up, k.Copy, k.Edit, k.NextFocus, k.ToggleLists, k.Quit}
	default:
		if mode == InputEditing {
			return []key.Binding{k.Submit, k.Cancel, k.NextFocus, k.ForceQuit}
		}
		return []key.Binding{k.Edit, k.NextFocus, k.ToggleLists, k.Quit}
	}
}
