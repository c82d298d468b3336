// Package tui provides the terminal user interface for llmtui.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/llmtui/internal/errors"
	"github.com/diogo/llmtui/internal/render"
)

// Color variables (updated from theme)
var (
	colorBorder    lipgloss.Color
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
	colorTextMute  lipgloss.Color
)

// Style variables (rebuilt when theme changes)
var (
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	// Panels
	panelStyle        lipgloss.Style
	focusedPanelStyle lipgloss.Style
	panelTitleStyle   lipgloss.Style

	// List rows
	listItemStyle     lipgloss.Style
	listSelectedStyle lipgloss.Style

	// Chat
	userLabelStyle       lipgloss.Style
	userBubbleStyle      lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	assistantBubbleStyle lipgloss.Style
	selectedBubbleStyle  lipgloss.Style

	// Input
	inputLabelStyle   lipgloss.Style
	editingLabelStyle lipgloss.Style

	// Status bar
	statusBarStyle   lipgloss.Style
	statusKeyStyle   lipgloss.Style
	statusDescStyle  lipgloss.Style
	thinkingStyle    lipgloss.Style
	listeningStyle   lipgloss.Style
	offlineStyle     lipgloss.Style
	feedbackOkStyle  lipgloss.Style
	feedbackErrStyle lipgloss.Style

	errorStyle lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme refreshes all styles based on the current TUI theme
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorPrimary = theme.Title
	colorSecondary = theme.Positive
	colorAccent = theme.Focus
	colorWarning = theme.Busy
	colorError = theme.Negative
	colorText = theme.Text
	colorTextDim = theme.Dim
	colorTextMute = theme.Faint

	rebuildStyles()
}

func rebuildStyles() {
	titleStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
		Foreground(colorTextMute).
		Italic(true)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)

	focusedPanelStyle = panelStyle.
		BorderForeground(colorAccent)

	panelTitleStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	listItemStyle = lipgloss.NewStyle().
		Foreground(colorText).
		PaddingLeft(2)

	listSelectedStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	userLabelStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true).
		MarginLeft(4)

	userBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1).
		MarginLeft(4)

	assistantLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Foreground(colorText).
		Padding(0, 1)

	selectedBubbleStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		MarginRight(1)

	editingLabelStyle = inputLabelStyle.
		Foreground(colorWarning)

	statusBarStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
		Foreground(colorTextDim).
		Bold(true)

	statusDescStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	thinkingStyle = lipgloss.NewStyle().
		Foreground(colorAccent).
		Bold(true)

	listeningStyle = lipgloss.NewStyle().
		Foreground(colorSecondary)

	offlineStyle = lipgloss.NewStyle().
		Foreground(colorTextMute)

	feedbackOkStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	feedbackErrStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError).
		Bold(true)
}

// FormatError returns a styled error message with a hint for the failures
// a user can fix.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	switch {
	case errors.Is(err, errors.ErrToolNotFound):
		sb.WriteString(dimStyle.Render("\n  Hint: install llm (pip install llm) or point --tool at it"))
	case errors.IsListenError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: another process holds the address. Use --addr to pick a different one"))
	case errors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: the tool printed something unexpected. Check that it supports 'logs list --json'"))
	case errors.Is(err, errors.ErrToolFailed):
		sb.WriteString(dimStyle.Render("\n  Hint: run the tool by hand to see the full error"))
	}

	return sb.String()
}

// PrintError prints a styled error message to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
