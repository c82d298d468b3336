package session

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/diogo/llmtui/internal/feedback"
	"github.com/diogo/llmtui/internal/models"
)

// echoPrompter answers "echo: <prompt>". When gate is set every prompt
// waits for one value on it.
type echoPrompter struct {
	gate chan struct{}

	mu      sync.Mutex
	aliases []string
}

func (p *echoPrompter) Prompt(_ context.Context, alias, prompt string) string {
	p.mu.Lock()
	p.aliases = append(p.aliases, alias)
	p.mu.Unlock()
	if p.gate != nil {
		<-p.gate
	}
	return "echo: " + prompt
}

func (p *echoPrompter) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.aliases...)
}

func testConversations() []models.Conversation {
	return []models.Conversation{
		{ID: "a", Name: "First"},
		{ID: "b", Name: "Second"},
	}
}

func testModels() []models.ModelInfo {
	return []models.ModelInfo{
		{Name: "gpt-4o", Aliases: []string{"4o"}},
		{Name: "claude-3-opus", Aliases: []string{"opus", "claude-3"}},
	}
}

// drainOne waits until one inference result has been applied.
func drainOne(t *testing.T, a *App) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if a.DrainInferenceResult() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for an inference result")
}

func contents(msgs []models.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = string(m.Role) + ":" + m.Content
	}
	return out
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_InitialState(t *testing.T) {
	a := NewApp(&echoPrompter{}, testConversations(), testModels())
	s := a.Snapshot()

	if s.Current != -1 || s.HasConversation {
		t.Errorf("Current = %d, want no selection", s.Current)
	}
	if s.Model != 0 {
		t.Errorf("Model = %d, want 0", s.Model)
	}
	if s.Focus != FocusConversationList || s.Mode != InputNormal {
		t.Errorf("focus/mode = %v/%v", s.Focus, s.Mode)
	}
	if s.Status != StatusIdle || s.Listening {
		t.Errorf("status = %v listening = %v", s.Status, s.Listening)
	}
	if diff := cmp.Diff([]string{"First", "Second"}, s.Titles); diff != "" {
		t.Errorf("Titles mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"gpt-4o (4o)", "claude-3-opus (opus, claude-3)"}, s.Models); diff != "" {
		t.Errorf("Models mismatch (-want +got):\n%s", diff)
	}
}

func TestNewApp_HiddenListsStartOnChat(t *testing.T) {
	a := NewApp(&echoPrompter{}, nil, nil, WithShowLists(false))
	if s := a.Snapshot(); s.Focus != FocusChat || s.Model != -1 {
		t.Errorf("focus = %v model = %d", s.Focus, s.Model)
	}
}

func TestNavigate_EmptyListsAreNoOps(t *testing.T) {
	a := NewApp(&echoPrompter{}, nil, nil)
	a.NavigateConversation(Next)
	a.NavigateModel(Prev)
	a.NavigateMessage(Next)

	s := a.Snapshot()
	if s.Current != -1 || s.Model != -1 || s.Message != -1 {
		t.Errorf("selection moved on empty lists: %d %d %d", s.Current, s.Model, s.Message)
	}
}

func TestNavigateConversation_Wraps(t *testing.T) {
	a := NewApp(&echoPrompter{}, testConversations(), nil)

	a.NavigateConversation(Prev)
	if got := a.Snapshot().Current; got != 1 {
		t.Fatalf("prev from none = %d, want 1", got)
	}
	a.NavigateConversation(Next)
	if got := a.Snapshot().Current; got != 0 {
		t.Fatalf("next from last = %d, want 0", got)
	}
}

func TestSelectConversation_OutOfRange(t *testing.T) {
	a := NewApp(&echoPrompter{}, testConversations(), nil)
	a.SelectConversation(1)
	a.SelectConversation(5)
	a.SelectConversation(-1)
	if got := a.Snapshot().Current; got != 1 {
		t.Errorf("Current = %d, want 1", got)
	}
}

func TestSubmitPrompt_NoSelectionChangesNothing(t *testing.T) {
	a := NewApp(&echoPrompter{}, testConversations(), nil)
	before := a.Snapshot()

	if a.SubmitPrompt("hello") {
		t.Fatal("SubmitPrompt should fail without a selection")
	}
	after := a.Snapshot()
	if after.Pending != 0 || after.Status != StatusIdle {
		t.Errorf("pending = %d", after.Pending)
	}
	if diff := cmp.Diff(before.Titles, after.Titles); diff != "" {
		t.Errorf("conversations changed: %s", diff)
	}
	if a.DrainInferenceResult() {
		t.Error("no worker should have been dispatched")
	}
}

func TestSubmitPrompt_BlankIgnored(t *testing.T) {
	a := NewApp(&echoPrompter{}, testConversations(), nil)
	a.SelectConversation(0)
	if a.SubmitPrompt("   \n") {
		t.Error("blank prompt should be ignored")
	}
	if got := len(a.Snapshot().Conversation.Messages); got != 0 {
		t.Errorf("messages = %d, want 0", got)
	}
}

func TestSubmitPrompt_RoundTrip(t *testing.T) {
	p := &echoPrompter{gate: make(chan struct{})}
	a := NewApp(p, testConversations(), testModels())
	a.SelectConversation(0)
	a.NavigateModel(Next)

	if !a.SubmitPrompt("hi") {
		t.Fatal("SubmitPrompt failed")
	}
	s := a.Snapshot()
	if s.Status != StatusAwaitingResponse || s.Pending != 1 {
		t.Errorf("status = %v pending = %d", s.Status, s.Pending)
	}
	if diff := cmp.Diff([]string{"user:hi"}, contents(s.Conversation.Messages)); diff != "" {
		t.Errorf("before result (-want +got):\n%s", diff)
	}

	p.gate <- struct{}{}
	drainOne(t, a)

	s = a.Snapshot()
	if diff := cmp.Diff([]string{"user:hi", "assistant:echo: hi"}, contents(s.Conversation.Messages)); diff != "" {
		t.Errorf("after result (-want +got):\n%s", diff)
	}
	if s.Status != StatusIdle {
		t.Errorf("status = %v, want idle", s.Status)
	}
	if s.Message != 1 {
		t.Errorf("chat cursor = %d, want last message", s.Message)
	}
	if diff := cmp.Diff([]string{"opus"}, p.seen()); diff != "" {
		t.Errorf("aliases (-want +got):\n%s", diff)
	}
	if a.DrainInferenceResult() {
		t.Error("result delivered twice")
	}
}

func TestSubmitPrompt_DefaultModelAlias(t *testing.T) {
	p := &echoPrompter{}
	a := NewApp(p, testConversations(), nil, WithDefaultModel("mini"))
	a.SelectConversation(0)
	a.SubmitPrompt("x")
	drainOne(t, a)

	if diff := cmp.Diff([]string{"mini"}, p.seen()); diff != "" {
		t.Errorf("aliases (-want +got):\n%s", diff)
	}
}

func TestResult_BindsToDispatchConversation(t *testing.T) {
	p := &echoPrompter{gate: make(chan struct{})}
	a := NewApp(p, testConversations(), nil)

	a.SelectConversation(0)
	a.SubmitPrompt("for A")
	a.SelectConversation(1)

	p.gate <- struct{}{}
	drainOne(t, a)

	s := a.Snapshot()
	if len(s.Conversation.Messages) != 0 {
		t.Errorf("conversation B got %v", contents(s.Conversation.Messages))
	}

	a.SelectConversation(0)
	got := contents(a.Snapshot().Conversation.Messages)
	if diff := cmp.Diff([]string{"user:for A", "assistant:echo: for A"}, got); diff != "" {
		t.Errorf("conversation A (-want +got):\n%s", diff)
	}
}

func TestResults_AllDeliveredThroughSmallQueue(t *testing.T) {
	a := NewApp(&echoPrompter{}, testConversations(), nil, WithQueueSize(1))
	a.SelectConversation(0)

	const n = 10
	for i := 0; i < n; i++ {
		a.SubmitPrompt("p")
	}
	for i := 0; i < n; i++ {
		drainOne(t, a)
	}

	s := a.Snapshot()
	if got := len(s.Conversation.Messages); got != 2*n {
		t.Errorf("messages = %d, want %d", got, 2*n)
	}
	if s.Pending != 0 {
		t.Errorf("pending = %d, want 0", s.Pending)
	}
}

func TestDrainRemoteCommand(t *testing.T) {
	tests := []struct {
		name     string
		selected bool
		text     string
		wantMsgs int
		wantText string
		wantPol  feedback.Polarity
	}{
		{"selected", true, "hello world", 1, feedbackRemoteSent, feedback.Positive},
		{"no selection", false, "hello world", 0, feedbackRemoteDropped, feedback.Negative},
		{"blank", true, "  ", 0, feedbackRemoteEmpty, feedback.Negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewApp(&echoPrompter{}, testConversations(), nil)
			if tt.selected {
				a.SelectConversation(0)
			}
			a.Commands() <- tt.text

			if !a.DrainRemoteCommand() {
				t.Fatal("command was not drained")
			}
			s := a.Snapshot()
			if !s.HasFeedback || s.Feedback.Text != tt.wantText || s.Feedback.Polarity != tt.wantPol {
				t.Errorf("feedback = %+v (present %v)", s.Feedback, s.HasFeedback)
			}
			if got := len(s.Conversation.Messages); got != tt.wantMsgs {
				t.Errorf("messages = %d, want %d", got, tt.wantMsgs)
			}
			if a.DrainRemoteCommand() {
				t.Error("queue should be empty")
			}
		})
	}
}

func TestDrainRemoteCommand_KeepsDraft(t *testing.T) {
	a := NewApp(&echoPrompter{}, testConversations(), nil)
	a.SelectConversation(0)
	a.HandleKey(runes("i"))
	a.HandleKey(runes("draft"))

	a.Commands() <- "remote"
	a.DrainRemoteCommand()

	s := a.Snapshot()
	if s.Draft != "draft" {
		t.Errorf("draft = %q, want %q", s.Draft, "draft")
	}
	if diff := cmp.Diff([]string{"user:remote"}, contents(s.Conversation.Messages)); diff != "" {
		t.Errorf("messages (-want +got):\n%s", diff)
	}
}

func TestTick_DrainsAtMostOneOfEach(t *testing.T) {
	a := NewApp(&echoPrompter{gate: make(chan struct{})}, testConversations(), nil)
	a.SelectConversation(0)
	a.Commands() <- "one"
	a.Commands() <- "two"

	a.Tick()
	if got := len(a.Snapshot().Conversation.Messages); got != 1 {
		t.Fatalf("after first tick messages = %d, want 1", got)
	}
	a.Tick()
	if got := len(a.Snapshot().Conversation.Messages); got != 2 {
		t.Fatalf("after second tick messages = %d, want 2", got)
	}
}

func TestTick_ExpiresFeedback(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reg := feedback.NewRegistry(feedback.WithClock(func() time.Time { return now }))
	a := NewApp(&echoPrompter{}, nil, nil, WithFeedbackRegistry(reg))

	a.SetFeedback("Message copied successfully!", feedback.Positive)
	now = now.Add(4 * time.Second)
	a.Tick()
	if !a.Snapshot().HasFeedback {
		t.Fatal("feedback should be visible at T+4s")
	}
	now = now.Add(2 * time.Second)
	a.Tick()
	if a.Snapshot().HasFeedback {
		t.Fatal("feedback should be gone at T+6s")
	}
}

func TestStartNewConversation(t *testing.T) {
	convs := []models.Conversation{{ID: "1", Name: "taken"}}
	a := NewApp(&echoPrompter{}, convs, nil)

	idx := a.StartNewConversation()
	s := a.Snapshot()
	if idx != 1 || s.Current != 1 {
		t.Fatalf("index = %d current = %d", idx, s.Current)
	}
	if s.Conversation.ID != "2" || s.Conversation.Name != "New Conversation 2" {
		t.Errorf("new conversation = %+v", s.Conversation)
	}
}

func TestToggleLists_MovesFocusOffHiddenPanel(t *testing.T) {
	a := NewApp(&echoPrompter{}, nil, nil)
	a.AdvanceFocus() // model select
	a.ToggleLists()

	s := a.Snapshot()
	if s.ShowLists || s.Focus != FocusChat {
		t.Errorf("showLists = %v focus = %v", s.ShowLists, s.Focus)
	}
	a.ToggleLists()
	if s := a.Snapshot(); !s.ShowLists || s.Focus != FocusChat {
		t.Errorf("showLists = %v focus = %v", s.ShowLists, s.Focus)
	}
}

func TestRemoteAndLocal_NoCrossProducerOrder(t *testing.T) {
	a := NewApp(&echoPrompter{}, testConversations(), nil)
	a.SelectConversation(0)

	a.SubmitPrompt("local")
	a.Commands() <- "remote"
	a.DrainRemoteCommand()
	drainOne(t, a)
	drainOne(t, a)

	msgs := contents(a.Snapshot().Conversation.Messages)
	if diff := cmp.Diff([]string{"user:local", "user:remote"}, msgs[:2]); diff != "" {
		t.Errorf("user messages (-want +got):\n%s", diff)
	}
	// Answers arrive in whichever order the workers finish.
	answers := msgs[2:]
	ok := cmp.Equal(answers, []string{"assistant:echo: local", "assistant:echo: remote"}) ||
		cmp.Equal(answers, []string{"assistant:echo: remote", "assistant:echo: local"})
	if !ok {
		t.Errorf("answers = %v", answers)
	}
}

func TestNewApp_DefaultModelPreselects(t *testing.T) {
	a := NewApp(&echoPrompter{}, nil, testModels(), WithDefaultModel("claude-3"))
	if got := a.Snapshot().Model; got != 1 {
		t.Errorf("Model = %d, want 1", got)
	}
	a = NewApp(&echoPrompter{}, nil, testModels(), WithDefaultModel("unknown"))
	if got := a.Snapshot().Model; got != 0 {
		t.Errorf("Model = %d, want 0 for an unknown alias", got)
	}
}
