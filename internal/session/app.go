// Package session owns the shared state of a running llmtui client.
//
// App is the single point of mutation. Every exported method holds the
// lock for exactly one logical operation; unexported helpers assume the
// caller already holds it. Nothing blocking runs under the lock: prompts
// are answered by detached workers that report back over a channel, and the
// remote listener feeds a second channel that is drained on each tick.
package session

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"github.com/diogo/llmtui/internal/feedback"
	"github.com/diogo/llmtui/internal/llm"
	"github.com/diogo/llmtui/internal/models"
)

// DefaultQueueSize is the buffer of the result and command channels.
// Producers are detached goroutines that wait when it is full.
const DefaultQueueSize = 64

const (
	feedbackRemoteSent    = "Remote message received and sent!"
	feedbackRemoteDropped = "Remote message dropped: no conversation selected"
	feedbackRemoteEmpty   = "Remote message was empty"
)

// Status is the request state shown in the status bar.
type Status int

const (
	StatusIdle Status = iota
	StatusAwaitingResponse
)

func (s Status) String() string {
	if s == StatusAwaitingResponse {
		return "Thinking..."
	}
	return "Ready"
}

// App is the session state container.
type App struct {
	mu sync.Mutex

	conversations []models.Conversation
	current       int // -1 when no conversation is selected
	modelList     []models.ModelInfo
	model         int // -1 when the model list is empty
	defaultModel  string
	message       int // chat cursor, -1 for none

	focus     Focus
	mode      InputMode
	showLists bool
	input     textinput.Model
	keys      KeyMap

	feedback *feedback.Registry
	pending  int

	prompter  llm.Prompter
	results   chan llm.Result
	commands  chan string
	listening *atomic.Bool

	logger *zap.Logger
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithFeedbackTTL sets how long feedback entries stay visible.
func WithFeedbackTTL(ttl time.Duration) Option {
	return func(a *App) {
		a.feedback = feedback.NewRegistry(feedback.WithTTL(ttl))
	}
}

// WithFeedbackRegistry replaces the feedback registry, mainly for tests
// that need a controllable clock.
func WithFeedbackRegistry(r *feedback.Registry) Option {
	return func(a *App) {
		if r != nil {
			a.feedback = r
		}
	}
}

// WithListening shares the listener's "server is listening" flag.
func WithListening(flag *atomic.Bool) Option {
	return func(a *App) {
		if flag != nil {
			a.listening = flag
		}
	}
}

// WithShowLists sets the initial side panel visibility.
func WithShowLists(show bool) Option {
	return func(a *App) {
		a.showLists = show
	}
}

// WithDefaultModel preselects the model answering to alias. When the tool
// reported no models, alias is passed to it as is.
func WithDefaultModel(alias string) Option {
	return func(a *App) {
		a.defaultModel = alias
	}
}

// WithQueueSize sets the buffer of the result and command channels.
func WithQueueSize(n int) Option {
	return func(a *App) {
		if n < 0 {
			n = 0
		}
		a.results = make(chan llm.Result, n)
		a.commands = make(chan string, n)
	}
}

// NewApp creates the session container from the startup data.
func NewApp(prompter llm.Prompter, convs []models.Conversation, modelList []models.ModelInfo, opts ...Option) *App {
	ti := textinput.New()
	ti.Placeholder = "Press i to start typing..."
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)

	a := &App{
		conversations: convs,
		current:       -1,
		modelList:     modelList,
		model:         -1,
		message:       -1,
		focus:         FocusConversationList,
		mode:          InputNormal,
		showLists:     true,
		input:         ti,
		keys:          DefaultKeyMap(),
		feedback:      feedback.NewRegistry(),
		prompter:      prompter,
		results:       make(chan llm.Result, DefaultQueueSize),
		commands:      make(chan string, DefaultQueueSize),
		listening:     &atomic.Bool{},
		logger:        zap.NewNop(),
	}
	if len(modelList) > 0 {
		a.model = 0
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.defaultModel != "" {
		for i, m := range a.modelList {
			if m.HasAlias(a.defaultModel) {
				a.model = i
				break
			}
		}
	}
	if !a.focus.Visible(a.showLists) {
		a.focus = NextFocus(a.focus, a.showLists)
	}
	return a
}

// Commands returns the send side of the remote-command channel.
func (a *App) Commands() chan<- string {
	return a.commands
}

// Listening reports the remote listener flag. It is read without the lock.
func (a *App) Listening() bool {
	return a.listening.Load()
}

// SelectConversation selects conversation i; out-of-range is a no-op.
func (a *App) SelectConversation(i int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selectConversation(i)
}

func (a *App) selectConversation(i int) bool {
	if i < 0 || i >= len(a.conversations) {
		return false
	}
	a.current = i
	a.scrollToBottom()
	return true
}

// NavigateConversation moves the conversation selection circularly.
func (a *App) NavigateConversation(dir Direction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.navigateConversation(dir)
}

func (a *App) navigateConversation(dir Direction) {
	if i, ok := wrap(a.current, len(a.conversations), dir); ok {
		a.selectConversation(i)
	}
}

// NavigateModel moves the model selection circularly.
func (a *App) NavigateModel(dir Direction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.navigateModel(dir)
}

func (a *App) navigateModel(dir Direction) {
	if i, ok := wrap(a.model, len(a.modelList), dir); ok {
		a.model = i
	}
}

// NavigateMessage moves the chat cursor within the current conversation.
func (a *App) NavigateMessage(dir Direction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.navigateMessage(dir)
}

func (a *App) navigateMessage(dir Direction) {
	conv := a.currentConversation()
	if conv == nil {
		return
	}
	if i, ok := wrap(a.message, len(conv.Messages), dir); ok {
		a.message = i
	}
}

// scrollToBottom points the chat cursor at the last message.
func (a *App) scrollToBottom() {
	a.message = -1
	if conv := a.currentConversation(); conv != nil && len(conv.Messages) > 0 {
		a.message = len(conv.Messages) - 1
	}
}

func (a *App) currentConversation() *models.Conversation {
	if a.current < 0 || a.current >= len(a.conversations) {
		return nil
	}
	return &a.conversations[a.current]
}

// StartNewConversation appends an empty conversation and selects it. It
// returns the new index. Callers move focus to the input field afterwards.
func (a *App) StartNewConversation() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startNewConversation()
}

func (a *App) startNewConversation() int {
	id := a.mintID()
	a.conversations = append(a.conversations, models.Conversation{
		ID:   id,
		Name: "New Conversation " + id,
	})
	idx := len(a.conversations) - 1
	a.selectConversation(idx)
	a.logger.Debug("conversation created", zap.String("id", id))
	return idx
}

// mintID derives an ID from the conversation count, skipping IDs that a
// loaded conversation already uses.
func (a *App) mintID() string {
	taken := make(map[string]bool, len(a.conversations))
	for _, c := range a.conversations {
		taken[c.ID] = true
	}
	n := len(a.conversations)
	for taken[strconv.Itoa(n)] {
		n++
	}
	return strconv.Itoa(n)
}

// SubmitPrompt sends text to the selected conversation and clears the input
// buffer. With no conversation selected, or blank text, it changes nothing
// and returns false.
func (a *App) SubmitPrompt(text string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.submitPrompt(text)
}

func (a *App) submitPrompt(text string) bool {
	if !a.dispatch(text) {
		return false
	}
	a.input.Reset()
	return true
}

// dispatch appends the user message and hands the prompt to a worker bound
// to the conversation selected now.
func (a *App) dispatch(text string) bool {
	conv := a.currentConversation()
	if conv == nil || strings.TrimSpace(text) == "" {
		return false
	}

	conv.Messages = append(conv.Messages, models.UserMessage(text))
	a.pending++
	a.scrollToBottom()

	req := llm.Request{
		Conversation:   a.current,
		ConversationID: conv.ID,
		Alias:          a.selectedAlias(),
		Prompt:         text,
	}
	a.logger.Debug("prompt dispatched",
		zap.String("conversation", req.ConversationID),
		zap.String("model", req.Alias),
		zap.Int("pending", a.pending),
	)
	llm.Dispatch(a.prompter, req, a.results)
	return true
}

func (a *App) selectedAlias() string {
	if a.model >= 0 && a.model < len(a.modelList) {
		return a.modelList[a.model].Alias()
	}
	return a.defaultModel
}

// DrainInferenceResult appends at most one ready result without blocking.
// The answer lands in the conversation that was selected when the prompt was
// dispatched, whatever is selected now.
func (a *App) DrainInferenceResult() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.drainInferenceResult()
}

func (a *App) drainInferenceResult() bool {
	select {
	case res := <-a.results:
		if a.pending > 0 {
			a.pending--
		}
		idx := res.Request.Conversation
		if idx < 0 || idx >= len(a.conversations) {
			a.logger.Warn("result for unknown conversation", zap.Int("index", idx))
			return true
		}
		a.conversations[idx].Messages = append(a.conversations[idx].Messages, models.AssistantMessage(res.Content))
		if idx == a.current {
			a.scrollToBottom()
		}
		a.logger.Debug("result delivered",
			zap.String("conversation", res.Request.ConversationID),
			zap.Int("bytes", len(res.Content)),
		)
		return true
	default:
		return false
	}
}

// DrainRemoteCommand submits at most one queued remote command without
// blocking. The user's unsent draft is left in place.
func (a *App) DrainRemoteCommand() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.drainRemoteCommand()
}

// Remote text is dispatched on its own; the local draft and input mode are
// left alone, and a missing selection is reported instead of ignored.
func (a *App) drainRemoteCommand() bool {
	select {
	case text := <-a.commands:
		switch {
		case a.currentConversation() == nil:
			a.feedback.Set(feedbackRemoteDropped, feedback.Negative)
			a.logger.Info("remote command dropped", zap.String("reason", "no conversation selected"))
		case !a.dispatch(text):
			a.feedback.Set(feedbackRemoteEmpty, feedback.Negative)
		default:
			a.feedback.Set(feedbackRemoteSent, feedback.Positive)
		}
		return true
	default:
		return false
	}
}

// SetFeedback replaces the current feedback entry.
func (a *App) SetFeedback(text string, polarity feedback.Polarity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.feedback.Set(text, polarity)
}

// ExpireFeedbackIfDue clears the feedback entry once it has expired.
func (a *App) ExpireFeedbackIfDue() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.feedback.ExpireIfDue()
}

// Tick runs one scheduler step: expire feedback, then drain one inference
// result and one remote command, all under a single lock hold.
func (a *App) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.feedback.ExpireIfDue()
	a.drainInferenceResult()
	a.drainRemoteCommand()
}

// AdvanceFocus moves focus to the next visible panel.
func (a *App) AdvanceFocus() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.advanceFocus()
}

func (a *App) advanceFocus() {
	a.exitEditing()
	a.focus = NextFocus(a.focus, a.showLists)
}

// ToggleLists shows or hides the side panels, moving focus off a panel
// that just disappeared.
func (a *App) ToggleLists() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.toggleLists()
}

func (a *App) toggleLists() {
	a.showLists = !a.showLists
	if !a.focus.Visible(a.showLists) {
		a.advanceFocus()
	}
}

func (a *App) enterEditing() {
	a.focus = FocusInput
	a.mode = InputEditing
	a.input.Focus()
}

func (a *App) exitEditing() {
	a.mode = InputNormal
	a.input.Blur()
}

// Status reports whether any prompt is still awaiting its answer.
func (a *App) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status()
}

func (a *App) status() Status {
	if a.pending > 0 {
		return StatusAwaitingResponse
	}
	return StatusIdle
}
