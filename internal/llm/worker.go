package llm

import "context"

// Prompter answers one prompt. *Runner is the production implementation.
type Prompter interface {
	Prompt(ctx context.Context, alias, prompt string) string
}

// Request is a prompt captured at send time. It carries no reference back
// into the session that produced it.
type Request struct {
	// Conversation is the index of the target conversation at dispatch time
	Conversation int
	// ConversationID is recorded for logging
	ConversationID string
	Alias          string
	Prompt         string
}

// Result is the answer to exactly one Request.
type Result struct {
	Request Request
	Content string
}

// Dispatch starts a detached worker that runs req and sends exactly one
// Result on out. The worker is never joined or cancelled; if out is full it
// waits, so results are never dropped.
func Dispatch(p Prompter, req Request, out chan<- Result) {
	go func() {
		content := p.Prompt(context.Background(), req.Alias, req.Prompt)
		out <- Result{Request: req, Content: content}
	}()
}
