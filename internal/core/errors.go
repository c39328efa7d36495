package core

import (
	"errors"
	"fmt"
)

var (
	// ErrLoopBound is returned when a turn exceeds the configured tool-round limit.
	ErrLoopBound = errors.New("tool loop exceeded the configured round limit")

	// ErrModelTransport marks failures reaching the model backend itself.
	// These are fatal for the current turn; tool failures are not.
	ErrModelTransport = errors.New("model backend unreachable")

	// ErrStorage marks conversation-store read/write failures.
	ErrStorage = errors.New("conversation storage failure")
)

// ToolErrorKind classifies recoverable tool failures.
type ToolErrorKind string

const (
	// InvalidArgument: the model supplied malformed or missing tool parameters.
	InvalidArgument ToolErrorKind = "invalid_argument"
	// Upstream: the external provider call failed (network, status, bad payload).
	Upstream ToolErrorKind = "upstream_error"
)

// ToolError is a recoverable tool failure. It is reported back to the model as
// the tool result content, never raised to the end user directly.
type ToolError struct {
	Kind ToolErrorKind
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Tool, e.Kind, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// NewInvalidArgument wraps a parameter validation failure for the named tool.
func NewInvalidArgument(tool string, err error) *ToolError {
	return &ToolError{Kind: InvalidArgument, Tool: tool, Err: err}
}

// NewUpstreamError wraps a provider failure for the named tool.
func NewUpstreamError(tool string, err error) *ToolError {
	return &ToolError{Kind: Upstream, Tool: tool, Err: err}
}
