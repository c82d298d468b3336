// Package errors provides custom error types for llmtui.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common cases
var (
	ErrToolNotFound  = errors.New("external tool not found")
	ErrToolFailed    = errors.New("external tool failed")
	ErrInvalidOutput = errors.New("invalid tool output")
	ErrListenFailed  = errors.New("remote listener failed")
	ErrNoSelection   = errors.New("No message selected") // shown to the user verbatim
	ErrClipboard     = errors.New("clipboard unavailable")
)

// ToolError represents a failure to run the external tool at startup
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	cmd := strings.TrimSpace(e.Tool + " " + strings.Join(e.Args, " "))
	switch {
	case e.Err != nil:
		return fmt.Sprintf("failed to run %q: %v", cmd, e.Err)
	case e.Stderr != "":
		return fmt.Sprintf("%q exited with status %d: %s", cmd, e.ExitCode, strings.TrimSpace(e.Stderr))
	default:
		return fmt.Sprintf("%q exited with status %d", cmd, e.ExitCode)
	}
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ToolError) Is(target error) bool {
	if target == ErrToolFailed {
		return true
	}
	if target == ErrToolNotFound {
		return e.Err != nil && isNotFound(e.Err)
	}
	_, ok := target.(*ToolError)
	return ok
}

// NewToolError creates a ToolError for a process that could not be started
func NewToolError(tool string, args []string, err error) *ToolError {
	return &ToolError{Tool: tool, Args: args, ExitCode: -1, Err: err}
}

// NewToolExitError creates a ToolError for a process that exited non-zero
func NewToolExitError(tool string, args []string, code int, stderr string) *ToolError {
	return &ToolError{Tool: tool, Args: args, ExitCode: code, Stderr: stderr}
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "executable file not found") ||
		strings.Contains(msg, "no such file or directory")
}

// ParseError represents a tool output parsing error
type ParseError struct {
	Message string
	Source  string
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Source, e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, source string) *ParseError {
	return &ParseError{Message: message, Source: source}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidOutput {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// ListenError represents a failure to bind the remote command socket
type ListenError struct {
	Addr string
	Err  error
}

func (e *ListenError) Error() string {
	return fmt.Sprintf("failed to listen on %s: %v", e.Addr, e.Err)
}

func (e *ListenError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ListenError) Is(target error) bool {
	if target == ErrListenFailed {
		return true
	}
	_, ok := target.(*ListenError)
	return ok
}

// NewListenError creates a new ListenError
func NewListenError(addr string, err error) *ListenError {
	return &ListenError{Addr: addr, Err: err}
}

// ClipboardError represents a failed clipboard write
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	if e.Err == nil {
		return "clipboard unavailable"
	}
	return e.Err.Error()
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *ClipboardError) Is(target error) bool {
	return target == ErrClipboard
}

// NewClipboardError creates a new ClipboardError
func NewClipboardError(err error) *ClipboardError {
	return &ClipboardError{Err: err}
}

// IsToolError reports whether err came from running the external tool
func IsToolError(err error) bool {
	var te *ToolError
	return errors.As(err, &te)
}

// IsListenError reports whether err came from binding the listener
func IsListenError(err error) bool {
	var le *ListenError
	return errors.As(err, &le)
}

// IsParseError reports whether err came from parsing tool output
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Is is errors.Is, re-exported so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}
