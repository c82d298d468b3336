package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the palette of the panels, named by what each color marks.
type TUITheme struct {
	Name        string
	Description string

	Border   lipgloss.Color
	Title    lipgloss.Color // headers, user messages
	Focus    lipgloss.Color // focused panel, selected row
	Positive lipgloss.Color // success feedback, listening
	Negative lipgloss.Color // failure feedback, errors
	Busy     lipgloss.Color // awaiting a reply

	Text  lipgloss.Color
	Dim   lipgloss.Color
	Faint lipgloss.Color
}

// The default follows the tokyonight markdown style.
var (
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "dark, blue accents",
		Border:      "#414868",
		Title:       "#7aa2f7",
		Focus:       "#bb9af7",
		Positive:    "#9ece6a",
		Negative:    "#f7768e",
		Busy:        "#e0af68",
		Text:        "#c0caf5",
		Dim:         "#565f89",
		Faint:       "#3b4261",
	}

	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "dark, high contrast",
		Border:      "#6272a4",
		Title:       "#8be9fd",
		Focus:       "#ff79c6",
		Positive:    "#50fa7b",
		Negative:    "#ff5555",
		Busy:        "#f1fa8c",
		Text:        "#f8f8f2",
		Dim:         "#6272a4",
		Faint:       "#44475a",
	}

	LightTheme = TUITheme{
		Name:        "light",
		Description: "for bright terminal backgrounds",
		Border:      "#a0a1a7",
		Title:       "#4078f2",
		Focus:       "#a626a4",
		Positive:    "#50a14f",
		Negative:    "#e45649",
		Busy:        "#c18401",
		Text:        "#383a42",
		Dim:         "#696c77",
		Faint:       "#c8c8c8",
	}
)

var tuiThemes = []TUITheme{TokyoNightTheme, DraculaTheme, LightTheme}

var (
	themeMu     sync.RWMutex
	activeTheme = TokyoNightTheme
)

// GetTUITheme returns the active TUI theme.
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return activeTheme
}

// SetTUITheme activates the named theme and reports whether it exists.
// Unknown names leave the active theme unchanged.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	activeTheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName looks a theme up by name.
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range tuiThemes {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes returns the built-in themes, default first.
func AvailableTUIThemes() []TUITheme {
	return append([]TUITheme(nil), tuiThemes...)
}
