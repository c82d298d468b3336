package session

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/diogo/llmtui/internal/errors"
	"github.com/diogo/llmtui/internal/feedback"
	"github.com/diogo/llmtui/internal/models"
)

// CopyFailed is the feedback text for a copy that did not happen.
func CopyFailed(err error) string {
	return "Failed to copy: " + err.Error()
}

// ActionKind tells the scheduler what to do after a key was applied.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionQuit
	ActionCopy
)

// Action is returned by HandleKey. Side effects that must not run under the
// session lock, like writing the clipboard, are described here instead.
type Action struct {
	Kind ActionKind
	Text string
}

// HandleKey applies one key press to the focus and input state machine.
func (a *App) HandleKey(msg tea.KeyMsg) Action {
	a.mu.Lock()
	defer a.mu.Unlock()

	if key.Matches(msg, a.keys.ForceQuit) {
		return Action{Kind: ActionQuit}
	}
	if a.focus == FocusInput && a.mode == InputEditing {
		a.handleEditingKey(msg)
		return Action{}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return Action{Kind: ActionQuit}
	case key.Matches(msg, a.keys.NextFocus):
		a.advanceFocus()
		return Action{}
	case key.Matches(msg, a.keys.ToggleLists):
		a.toggleLists()
		return Action{}
	case key.Matches(msg, a.keys.Edit):
		a.enterEditing()
		return Action{}
	}

	switch a.focus {
	case FocusConversationList:
		switch {
		case key.Matches(msg, a.keys.Down):
			a.navigateConversation(Next)
		case key.Matches(msg, a.keys.Up):
			a.navigateConversation(Prev)
		case key.Matches(msg, a.keys.Select):
			if a.currentConversation() != nil {
				a.focus = FocusChat
			}
		case key.Matches(msg, a.keys.New):
			a.startNewConversation()
			a.focus = FocusInput
		}
	case FocusModelSelect:
		switch {
		case key.Matches(msg, a.keys.Down):
			a.navigateModel(Next)
		case key.Matches(msg, a.keys.Up):
			a.navigateModel(Prev)
		}
	case FocusChat:
		switch {
		case key.Matches(msg, a.keys.Down):
			a.navigateMessage(Next)
		case key.Matches(msg, a.keys.Up):
			a.navigateMessage(Prev)
		case key.Matches(msg, a.keys.Copy):
			return a.copySelected()
		}
	}
	return Action{}
}

func (a *App) handleEditingKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, a.keys.Submit):
		a.submitPrompt(a.input.Value())
		a.exitEditing()
	case key.Matches(msg, a.keys.Cancel):
		a.exitEditing()
	case key.Matches(msg, a.keys.NextFocus):
		a.advanceFocus()
	default:
		a.input, _ = a.input.Update(msg)
	}
}

func (a *App) copySelected() Action {
	conv := a.currentConversation()
	if conv == nil || a.message < 0 || a.message >= len(conv.Messages) {
		a.feedback.Set(CopyFailed(apperrors.ErrNoSelection), feedback.Negative)
		return Action{}
	}
	return Action{Kind: ActionCopy, Text: conv.Messages[a.message].Content}
}

// Snapshot is a consistent, detached copy of everything the view renders.
type Snapshot struct {
	Titles          []string
	Current         int
	Conversation    models.Conversation
	HasConversation bool
	Message         int

	Models []string
	Model  int

	Focus     Focus
	Mode      InputMode
	ShowLists bool
	Input     string
	Draft     string
	Hints     []key.Binding

	Feedback    feedback.Entry
	HasFeedback bool
	Status      Status
	Pending     int
	Listening   bool
}

// Snapshot copies the render state under one lock hold.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Snapshot{
		Titles:    make([]string, len(a.conversations)),
		Current:   a.current,
		Message:   a.message,
		Models:    make([]string, len(a.modelList)),
		Model:     a.model,
		Focus:     a.focus,
		Mode:      a.mode,
		ShowLists: a.showLists,
		Input:     a.input.View(),
		Draft:     a.input.Value(),
		Hints:     a.keys.Hints(a.focus, a.mode),
		Status:    a.status(),
		Pending:   a.pending,
		Listening: a.listening.Load(),
	}
	for i, c := range a.conversations {
		s.Titles[i] = c.Title()
	}
	for i, m := range a.modelList {
		s.Models[i] = m.Label()
	}
	if conv := a.currentConversation(); conv != nil {
		s.Conversation = conv.Clone()
		s.HasConversation = true
	}
	s.Feedback, s.HasFeedback = a.feedback.Current()
	return s
}
