package render

// Markdown style names accepted in the config file.
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeDracula    = "dracula"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

// glamourStyles maps config names to glamour's standard style names.
var glamourStyles = map[string]string{
	ThemeDark:       "dark",
	ThemeLight:      "light",
	ThemeTokyoNight: "tokyo-night",
	"tokyo-night":   "tokyo-night",
	ThemeDracula:    "dracula",
	ThemeNoTTY:      "notty",
	ThemeASCII:      "ascii",
	"pink":          "pink",
}

// StandardStyle returns glamour's name for a built-in style and whether
// style names one. Anything else is treated as a path to a JSON file.
func StandardStyle(style string) (string, bool) {
	name, ok := glamourStyles[style]
	return name, ok
}

// ThemeInfo describes a markdown style for the config command.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the built-in markdown styles.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}
