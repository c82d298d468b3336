package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/llmtui/internal/errors"
	"github.com/diogo/llmtui/internal/feedback"
	"github.com/diogo/llmtui/internal/models"
	"github.com/diogo/llmtui/internal/render"
	"github.com/diogo/llmtui/internal/session"
)

// DefaultPollInterval is the scheduler tick period.
const DefaultPollInterval = 100 * time.Millisecond

const sidebarWidth = 32

// Message types for the TUI
type (
	// tickMsg drives one scheduler step
	tickMsg time.Time

	// copyResultMsg reports the outcome of a clipboard write
	copyResultMsg struct {
		err error
	}
)

// Model is the bubbletea program that owns the scheduling loop. All state
// lives in the session; Model only keeps what the terminal layout needs.
type Model struct {
	app *session.App

	viewport viewport.Model
	spinner  spinner.Model

	poll      time.Duration
	markdown  render.Options
	copyText  func(string) error
	logger    *zap.Logger
	chatKey   string // identifies the content currently in the viewport
	ready     bool
	width     int
	height    int
	chatWidth int
	withLists bool // side panels were visible at the last resize
}

// Option configures a Model.
type Option func(*Model)

// WithPollInterval sets the tick period.
func WithPollInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.poll = d
		}
	}
}

// WithMarkdown sets the renderer options for assistant replies.
func WithMarkdown(opts render.Options) Option {
	return func(m *Model) {
		m.markdown = opts
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewModel creates the TUI model for app.
func NewModel(app *session.App, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = thinkingStyle

	m := Model{
		app:      app,
		spinner:  s,
		poll:     DefaultPollInterval,
		markdown: render.DefaultOptions(),
		copyText: clipboard.WriteAll,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the tick loop and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.spinner.Tick,
	)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.poll, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tickMsg:
		m.app.Tick()
		m.refreshChat()
		cmds = append(cmds, m.tick())

	case tea.KeyMsg:
		act := m.app.HandleKey(msg)
		switch act.Kind {
		case session.ActionQuit:
			m.logger.Info("quit requested")
			return m, tea.Quit
		case session.ActionCopy:
			cmds = append(cmds, m.copyCmd(act.Text))
		}
		m.refreshChat()

	case copyResultMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard write failed", zap.Error(msg.err))
			m.app.SetFeedback(session.CopyFailed(msg.err), feedback.Negative)
		} else {
			m.app.SetFeedback("Message copied successfully!", feedback.Positive)
		}

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// copyCmd writes text to the clipboard off the scheduler goroutine.
func (m Model) copyCmd(text string) tea.Cmd {
	write := m.copyText
	return func() tea.Msg {
		if err := write(text); err != nil {
			return copyResultMsg{err: errors.NewClipboardError(err)}
		}
		return copyResultMsg{}
	}
}

func (m *Model) resize() {
	headerHeight := 2 // title line and blank line
	inputHeight := 3  // input panel with border
	statusHeight := 2 // state line and key hints

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 3 {
		vpHeight = 3
	}

	m.withLists = m.app.Snapshot().ShowLists
	prevWidth := m.chatWidth
	m.chatWidth = m.width - 4
	if m.withLists {
		m.chatWidth -= sidebarWidth + 2
	}
	if m.chatWidth < 20 {
		m.chatWidth = 20
	}
	if m.ready && m.chatWidth != prevWidth {
		render.ClearCache()
	}

	if !m.ready {
		m.viewport = viewport.New(m.chatWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.chatWidth
		m.viewport.Height = vpHeight
	}
	m.chatKey = ""
	m.refreshChat()
}

// refreshChat re-renders the chat panel when the visible conversation, its
// length, the message cursor or the layout changed.
func (m *Model) refreshChat() {
	if !m.ready {
		return
	}
	snap := m.app.Snapshot()
	if snap.ShowLists != m.withLists {
		m.resize()
		return
	}

	key := fmt.Sprintf("%d:%s:%d:%d:%d:%t", snap.Current, snap.Conversation.ID,
		len(snap.Conversation.Messages), snap.Message, m.chatWidth, snap.Focus == session.FocusChat)
	if key == m.chatKey {
		return
	}
	m.chatKey = key

	content, offsets := renderConversation(snap, m.chatWidth-4, m.markdown)
	m.viewport.SetContent(content)

	switch {
	case snap.Message >= 0 && snap.Message < len(offsets) && snap.Focus == session.FocusChat:
		top := offsets[snap.Message]
		if top < m.viewport.YOffset || top >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(top)
		}
	default:
		m.viewport.GotoBottom()
	}
}

// renderConversation lays out every message and returns the first line of
// each one so the caller can scroll to it.
func renderConversation(snap session.Snapshot, width int, opts render.Options) (string, []int) {
	if !snap.HasConversation {
		return hintStyle.Render("No conversation selected. Pick one on the left or press n."), nil
	}
	if len(snap.Conversation.Messages) == 0 {
		return hintStyle.Render("Empty conversation. Press i to start typing."), nil
	}
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	offsets := make([]int, len(snap.Conversation.Messages))
	line := 0
	for i, msg := range snap.Conversation.Messages {
		if i > 0 {
			content.WriteString("\n\n")
			line++
		}
		offsets[i] = line

		selected := i == snap.Message && snap.Focus == session.FocusChat
		block := renderMessage(msg, width, opts, selected)
		content.WriteString(block)
		line += lipgloss.Height(block)
	}
	return content.String(), offsets
}

func renderMessage(msg models.Message, width int, opts render.Options, selected bool) string {
	var label, body string
	var bubble lipgloss.Style

	if msg.Role == models.RoleUser {
		label = userLabelStyle.Render("You")
		bubble = userBubbleStyle
		body = msg.Content
	} else {
		label = assistantLabelStyle.Render("Assistant")
		bubble = assistantBubbleStyle
		body = render.Reply(msg.Content, opts.WithWidth(width-4))
	}
	if selected {
		bubble = selectedBubbleStyle.MarginLeft(bubble.GetMarginLeft())
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, bubble.Width(width-bubble.GetMarginLeft()).Render(body))
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return subtitleStyle.Render("  Initializing...")
	}
	snap := m.app.Snapshot()

	header := titleStyle.Render("llmtui") + "  " + subtitleStyle.Render(m.headerText(snap))

	chatPanel := panelFor(snap.Focus == session.FocusChat).
		Width(m.chatWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View())

	body := chatPanel
	if snap.ShowLists {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(snap), chatPanel)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		m.renderInput(snap),
		m.renderStatusBar(snap),
	)
}

func (m Model) headerText(snap session.Snapshot) string {
	model := "default model"
	if snap.Model >= 0 && snap.Model < len(snap.Models) {
		model = snap.Models[snap.Model]
	}
	if snap.HasConversation {
		return snap.Conversation.Title() + " · " + model
	}
	return model
}

func panelFor(focused bool) lipgloss.Style {
	if focused {
		return focusedPanelStyle
	}
	return panelStyle
}

// renderSidebar stacks the conversation list over the model list, splitting
// the available height between them.
func (m Model) renderSidebar(snap session.Snapshot) string {
	total := m.viewport.Height
	convRows := total*2/3 - 3
	modelRows := total - convRows - 7
	if convRows < 1 {
		convRows = 1
	}
	if modelRows < 1 {
		modelRows = 1
	}

	convs := panelFor(snap.Focus == session.FocusConversationList).
		Width(sidebarWidth).
		Render(renderList("Conversations", snap.Titles, snap.Current, convRows, sidebarWidth-2))
	mods := panelFor(snap.Focus == session.FocusModelSelect).
		Width(sidebarWidth).
		Render(renderList("Models", snap.Models, snap.Model, modelRows, sidebarWidth-2))

	return lipgloss.JoinVertical(lipgloss.Left, convs, mods)
}

// renderList draws a titled list showing at most rows items, windowed so
// the selection stays visible.
func renderList(title string, items []string, selected, rows, width int) string {
	var sb strings.Builder
	sb.WriteString(panelTitleStyle.Render(title))

	if len(items) == 0 {
		sb.WriteString("\n" + hintStyle.Render("  (none)"))
		return sb.String()
	}

	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}
	end := start + rows
	if end > len(items) {
		end = len(items)
	}

	for i := start; i < end; i++ {
		sb.WriteString("\n")
		text := truncate(items[i], width-2)
		if i == selected {
			sb.WriteString(listSelectedStyle.Render("> " + text))
		} else {
			sb.WriteString(listItemStyle.Render(text))
		}
	}
	return sb.String()
}

func (m Model) renderInput(snap session.Snapshot) string {
	label := inputLabelStyle.Render("›")
	if snap.Mode == session.InputEditing {
		label = editingLabelStyle.Render("✎")
	}
	return panelFor(snap.Focus == session.FocusInput).
		Width(m.width - 2).
		Render(label + snap.Input)
}

// renderStatusBar shows focus, request state, listener state and feedback on
// one line and the key hints of the focused panel below.
func (m Model) renderStatusBar(snap session.Snapshot) string {
	var left []string

	state := snap.Focus.String()
	if snap.Focus == session.FocusInput {
		state += " (" + snap.Mode.String() + ")"
	}
	left = append(left, statusKeyStyle.Render(state))

	if snap.Status == session.StatusAwaitingResponse {
		left = append(left, m.spinner.View()+thinkingStyle.Render(" "+snap.Status.String()))
	}

	if snap.Listening {
		left = append(left, listeningStyle.Render("● remote"))
	} else {
		left = append(left, offlineStyle.Render("○ remote"))
	}

	if snap.HasFeedback {
		style := feedbackOkStyle
		if snap.Feedback.Polarity == feedback.Negative {
			style = feedbackErrStyle
		}
		left = append(left, style.Render(snap.Feedback.Text))
	}

	var hints []string
	for _, b := range snap.Hints {
		h := b.Help()
		hints = append(hints, statusKeyStyle.Render(h.Key)+statusDescStyle.Render(" "+h.Desc))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBarStyle.Width(m.width).Render(strings.Join(left, "  │  ")),
		statusBarStyle.MaxWidth(m.width).Render(strings.Join(hints, "  ")),
	)
}

// truncate shortens s to max display cells, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)+"…") > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

// Run starts the TUI and blocks until the user quits. Workers still running
// at that point are abandoned.
func Run(app *session.App, opts ...Option) error {
	p := tea.NewProgram(
		NewModel(app, opts...),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
