// Package llm runs the external `llm` command-line tool.
package llm

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"go.uber.org/zap"

	apierrors "github.com/diogo/llmtui/internal/errors"
)

// ErrorMarker separates partial output from captured stderr on failure
const ErrorMarker = "\nError: "

// Runner invokes the external tool. It holds no session state and is safe
// for concurrent use.
type Runner struct {
	tool   string
	env    []string
	logger *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEnv sets extra environment variables for every invocation.
func WithEnv(env []string) RunnerOption {
	return func(r *Runner) {
		if len(env) == 0 {
			r.env = nil
			return
		}
		r.env = append([]string(nil), env...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner for the given binary ("llm" when empty).
func NewRunner(tool string, opts ...RunnerOption) *Runner {
	r := &Runner{
		tool:   tool,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.tool == "" {
		r.tool = "llm"
	}
	return r
}

// Tool returns the binary this runner invokes.
func (r *Runner) Tool() string {
	return r.tool
}

// result is the captured outcome of one process run
type result struct {
	stdout   string
	stderr   string
	exitCode int
	// launchErr is set when the process could not be started or waited on
	launchErr error
}

func (r *Runner) run(ctx context.Context, args ...string) result {
	cmd := exec.CommandContext(ctx, r.tool, args...)
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := result{stdout: stdout.String(), stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.exitCode = exitErr.ExitCode()
	default:
		res.exitCode = -1
		res.launchErr = err
	}

	r.logger.Debug("tool finished",
		zap.String("tool", r.tool),
		zap.Strings("args", args),
		zap.Int("exit_code", res.exitCode),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res
}

// Prompt runs `<tool> -m <alias> <prompt>` to completion and returns the
// answer text. A non-zero exit yields stdout followed by ErrorMarker and the
// captured stderr. Failures are never returned as errors.
func (r *Runner) Prompt(ctx context.Context, alias, prompt string) string {
	args := []string{prompt}
	if alias != "" {
		args = []string{"-m", alias, prompt}
	}

	res := r.run(ctx, args...)
	switch {
	case res.launchErr != nil:
		r.logger.Warn("failed to launch tool", zap.String("tool", r.tool), zap.Error(res.launchErr))
		return res.stdout + ErrorMarker + res.launchErr.Error()
	case res.exitCode != 0:
		return res.stdout + ErrorMarker + res.stderr
	default:
		return res.stdout
	}
}

// output runs a listing subcommand and converts failures into ToolErrors.
func (r *Runner) output(ctx context.Context, args ...string) (string, error) {
	res := r.run(ctx, args...)
	if res.launchErr != nil {
		return "", apierrors.NewToolError(r.tool, args, res.launchErr)
	}
	if res.exitCode != 0 {
		return "", apierrors.NewToolExitError(r.tool, args, res.exitCode, res.stderr)
	}
	return res.stdout, nil
}
