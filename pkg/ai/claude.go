package ai

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/docformat-toolkit/docformat/pkg/errors"
)

const (
	providerClaude = "Claude CLI"
	maxPromptBytes = 4 << 20
)

// ClaudeFormatter runs the Claude Code CLI in print mode with the prompt
// on stdin
type ClaudeFormatter struct {
	cliPath string
	model   string
	retry   *RetryExecutor
	logger  *slog.Logger
}

// ClaudeOption configures a ClaudeFormatter
type ClaudeOption func(*ClaudeFormatter)

// WithClaudePath sets the CLI binary
func WithClaudePath(path string) ClaudeOption {
	return func(f *ClaudeFormatter) {
		if path != "" {
			f.cliPath = path
		}
	}
}

// WithClaudeModel sets the --model flag
func WithClaudeModel(model string) ClaudeOption {
	return func(f *ClaudeFormatter) {
		f.model = model
	}
}

// WithClaudeRetry replaces the retry executor
func WithClaudeRetry(re *RetryExecutor) ClaudeOption {
	return func(f *ClaudeFormatter) {
		if re != nil {
			f.retry = re
		}
	}
}

// WithClaudeLogger sets the logger
func WithClaudeLogger(logger *slog.Logger) ClaudeOption {
	return func(f *ClaudeFormatter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewClaudeFormatter creates a Claude Code CLI backend
func NewClaudeFormatter(opts ...ClaudeOption) *ClaudeFormatter {
	f := &ClaudeFormatter{
		cliPath: "claude",
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.retry == nil {
		f.retry = NewRetryExecutor(nil, WithRetryLogger(f.logger))
	}
	return f
}

// Format implements Formatter
func (f *ClaudeFormatter) Format(ctx context.Context, prompt string) (string, error) {
	if err := validatePrompt(prompt); err != nil {
		return "", errors.InvalidValue("prompt", err.Error())
	}

	var out string
	err := f.retry.Execute(ctx, func(ctx context.Context, attempt int) error {
		text, err := f.run(ctx, prompt)
		if err != nil {
			f.logger.Debug("claude CLI call failed", "attempt", attempt+1, "error", err)
			return err
		}
		out = text
		return nil
	})
	return out, err
}

// Type implements Formatter
func (f *ClaudeFormatter) Type() BackendType {
	return BackendClaude
}

// Validate checks that the CLI is installed and runnable
func (f *ClaudeFormatter) Validate(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, f.cliPath, "--version")
	if err := cmd.Run(); err != nil {
		return errors.ConnectionFailed(providerClaude, fmt.Errorf("%s command not found or not working: %w", f.cliPath, err))
	}
	return nil
}

func (f *ClaudeFormatter) args() []string {
	args := []string{"-p", "--output-format", "text"}
	if f.model != "" {
		args = append(args, "--model", f.model)
	}
	return args
}

func (f *ClaudeFormatter) run(ctx context.Context, prompt string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.cliPath, f.args()...)
	cmd.Stdin = strings.NewReader(prompt)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", classifyCLIError(ctx, err, stderr.String())
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", errors.InvalidResponse(providerClaude, "empty output")
	}
	return text, nil
}

// classifyCLIError maps a failed CLI run onto the service error kinds
func classifyCLIError(ctx context.Context, err error, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if stderrors.Is(ctxErr, context.Canceled) {
			return errors.Cancelled(providerClaude, ctxErr)
		}
		return errors.TimedOut(providerClaude, ctxErr)
	}
	if stderrors.Is(err, exec.ErrNotFound) {
		return errors.ConnectionFailed(providerClaude, err)
	}

	msg := strings.ToLower(stderr)
	cause := err
	if s := strings.TrimSpace(stderr); s != "" {
		cause = fmt.Errorf("%w: %s", err, s)
	}

	switch {
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return errors.RateLimited(providerClaude, cause)
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication") || strings.Contains(msg, "api key"):
		return errors.AuthenticationFailed(providerClaude, cause)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return errors.TimedOut(providerClaude, cause)
	default:
		return errors.ConnectionFailed(providerClaude, cause)
	}
}

// validatePrompt catches prompts the CLI cannot take before spawning it
func validatePrompt(prompt string) error {
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}
	if strings.Contains(prompt, "\x00") {
		return fmt.Errorf("prompt contains null bytes")
	}
	if len(prompt) > maxPromptBytes {
		return fmt.Errorf("prompt too large: %d bytes (max %d)", len(prompt), maxPromptBytes)
	}
	return nil
}
