package ai

import (
	"context"

	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/prompt"
)

// EchoFormatter returns the content section of each prompt verbatim
type EchoFormatter struct{}

// NewEchoFormatter creates an echo backend
func NewEchoFormatter() *EchoFormatter {
	return &EchoFormatter{}
}

// Format implements Formatter
func (EchoFormatter) Format(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.TimedOut(string(BackendEcho), err)
	}
	content, ok := prompt.ExtractContent(p)
	if !ok {
		return "", errors.InvalidResponse(string(BackendEcho), "prompt has no content section")
	}
	return content, nil
}

// Type implements Formatter
func (EchoFormatter) Type() BackendType {
	return BackendEcho
}
