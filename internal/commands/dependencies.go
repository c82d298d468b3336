package commands

import (
	"context"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/llmtui/internal/config"
	"github.com/diogo/llmtui/internal/llm"
	"github.com/diogo/llmtui/internal/models"
	"github.com/diogo/llmtui/internal/session"
	"github.com/diogo/llmtui/internal/tui"
)

// Backend is everything the commands need from the external tool.
type Backend interface {
	llm.Prompter
	Aliases(ctx context.Context) ([]models.ModelInfo, error)
	Conversations(ctx context.Context) ([]models.Conversation, error)
}

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	Run(app *session.App, opts ...tui.Option) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// LoadConfig reads the user configuration.
	LoadConfig func() (config.Config, error)

	// NewBackend builds the tool runner for a configuration.
	NewBackend func(cfg config.Config, logger *zap.Logger) Backend

	// TUI is the terminal user interface.
	TUI TUIInterface

	// IsTerminal reports whether the process is attached to a terminal.
	IsTerminal func() bool
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) Run(app *session.App, opts ...tui.Option) error {
	return tui.Run(app, opts...)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		LoadConfig: config.LoadConfig,
		NewBackend: func(cfg config.Config, logger *zap.Logger) Backend {
			return llm.NewRunner(cfg.Tool, llm.WithLogger(logger))
		},
		TUI: &DefaultTUI{},
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}
