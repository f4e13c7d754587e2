// Package ai provides the formatting service backends
// Supported backends: OpenAI-compatible chat completions, Claude Code CLI, echo
package ai

import (
	"context"
)

// BackendType represents the type of formatting backend
type BackendType string

const (
	// BackendOpenAI calls an OpenAI-compatible chat completions endpoint
	BackendOpenAI BackendType = "openai"
	// BackendClaude runs the Claude Code CLI
	BackendClaude BackendType = "claude"
	// BackendEcho returns the content unchanged, for offline runs
	BackendEcho BackendType = "echo"
)

// Formatter turns a prompt into formatted text
// Implementations return typed errors from pkg/errors so callers can tell
// authentication problems from transient failures
type Formatter interface {
	// Format sends prompt to the backend and returns the formatted text
	Format(ctx context.Context, prompt string) (string, error)

	// Type returns the backend type identifier
	Type() BackendType
}

// String returns the string representation of a BackendType
func (b BackendType) String() string {
	return string(b)
}

// IsValid checks if the backend type is valid
func (b BackendType) IsValid() bool {
	switch b {
	case BackendOpenAI, BackendClaude, BackendEcho:
		return true
	default:
		return false
	}
}

// Backends lists the accepted backend names
func Backends() []BackendType {
	return []BackendType{BackendOpenAI, BackendClaude, BackendEcho}
}
