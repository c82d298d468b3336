package commands

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/diogo/llmtui/internal/config"
	"github.com/diogo/llmtui/internal/models"
	"github.com/diogo/llmtui/internal/remote"
	"github.com/diogo/llmtui/internal/render"
	"github.com/diogo/llmtui/internal/session"
	"github.com/diogo/llmtui/internal/tui"
)

var errNotTerminal = errors.New("llmtui needs an interactive terminal; use 'llmtui send' to push a prompt instead")

// startupData is what the client loads from the tool before the UI starts.
type startupData struct {
	models        []models.ModelInfo
	conversations []models.Conversation
}

// loadStartup lists models and conversations concurrently. Either failure
// aborts startup.
func loadStartup(ctx context.Context, backend Backend) (startupData, error) {
	var data startupData

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := backend.Aliases(gctx)
		data.models = m
		return err
	})
	g.Go(func() error {
		c, err := backend.Conversations(gctx)
		data.conversations = c
		return err
	})

	if err := g.Wait(); err != nil {
		return startupData{}, err
	}
	return data, nil
}

// runChat loads the session, binds the remote listener and runs the TUI
// until the user quits.
func runChat(cmd *cobra.Command, deps *Dependencies, flags *rootFlags) error {
	cfg, err := loadSettings(deps, flags)
	if err != nil {
		return err
	}
	if !deps.IsTerminal() {
		return errNotTerminal
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	backend := deps.NewBackend(cfg, logger)
	data, err := loadStartup(cmd.Context(), backend)
	if err != nil {
		return err
	}
	logger.Info("session loaded",
		zap.Int("models", len(data.models)),
		zap.Int("conversations", len(data.conversations)),
	)

	applyTheme(cfg, logger)

	listening := &atomic.Bool{}
	app := session.NewApp(backend, data.conversations, data.models,
		session.WithLogger(logger),
		session.WithFeedbackTTL(cfg.FeedbackTTL()),
		session.WithListening(listening),
		session.WithShowLists(cfg.ShowSidebar),
		session.WithDefaultModel(cfg.DefaultModel),
	)

	ln := remote.New(cfg.ListenAddr, app.Commands(),
		remote.WithReadTimeout(cfg.ReadTimeout()),
		remote.WithMaxConnections(cfg.MaxConnections),
		remote.WithListeningFlag(listening),
		remote.WithLogger(logger),
	)
	if err := ln.Listen(); err != nil {
		return err
	}
	defer ln.Close()

	go func() {
		if err := ln.Serve(); err != nil {
			logger.Error("remote listener stopped", zap.Error(err))
		}
	}()

	if err := deps.TUI.Run(app,
		tui.WithPollInterval(cfg.PollInterval()),
		tui.WithMarkdown(render.FromConfig(cfg.Markdown)),
		tui.WithLogger(logger),
	); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func applyTheme(cfg config.Config, logger *zap.Logger) {
	if cfg.TUITheme == "" {
		return
	}
	if !render.SetTUITheme(cfg.TUITheme) {
		logger.Warn("unknown tui theme, keeping default", zap.String("theme", cfg.TUITheme))
		return
	}
	tui.UpdateTheme()
}
