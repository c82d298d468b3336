package commands

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diogo/llmtui/internal/config"
)

// newLogger builds the process logger. The TUI owns the terminal, so logs
// only go to the configured file; without one they are discarded.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{cfg.LogFile}
	zc.ErrorOutputPaths = []string{cfg.LogFile}
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("tool", cfg.Tool)), nil
}

// newBackend builds the tool runner with the configured logger. The returned
// func flushes the logger.
func newBackend(deps *Dependencies, cfg config.Config) (Backend, func(), error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	return deps.NewBackend(cfg, logger), func() { _ = logger.Sync() }, nil
}
