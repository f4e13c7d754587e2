package errors_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/docformat-toolkit/docformat/pkg/errors"
)

func TestNewDerivesCategoryAndCode(t *testing.T) {
	tests := []struct {
		kind     errors.Kind
		category errors.Category
		code     int
	}{
		{errors.KindInvalidConfig, errors.CategoryConfig, 1001},
		{errors.KindNotFound, errors.CategoryFileOperation, 2001},
		{errors.KindWriteFailed, errors.CategoryFileOperation, 2004},
		{errors.KindRateLimit, errors.CategoryService, 3003},
		{errors.KindEmptyContent, errors.CategoryValidation, 4001},
		{errors.KindContextSave, errors.CategoryProcessing, 5002},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := errors.New(tt.kind, "boom", nil)
			if err.Category != tt.category {
				t.Errorf("Category = %v, want %v", err.Category, tt.category)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %d, want %d", err.Code, tt.code)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := stderrors.New("disk full")
	err := fmt.Errorf("writing chunk: %w", errors.WriteFailed("out.md", cause))

	if !errors.IsCategory(err, errors.CategoryFileOperation) {
		t.Error("expected file operation category through wrapping")
	}
	if !errors.IsKind(err, errors.KindWriteFailed) {
		t.Error("expected write_failed kind")
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable with errors.Is")
	}
	if got := err.Error(); got != "writing chunk: [FILE] failed to write to out.md: disk full" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", stderrors.New("x"), false},
		{"connection", errors.ConnectionFailed("openai", nil), true},
		{"rate limit", errors.RateLimited("openai", nil), true},
		{"timeout", errors.TimedOut("openai", nil), true},
		{"authentication", errors.AuthenticationFailed("openai", nil), false},
		{"invalid response", errors.InvalidResponse("openai", "empty"), false},
		{"cancelled", errors.Cancelled("openai", context.Canceled), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if got := errors.ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := errors.ExitCode(stderrors.New("x")); got != 1 {
		t.Errorf("ExitCode(untyped) = %d, want 1", got)
	}
	if got := errors.ExitCode(errors.EmptyContent("Document content")); got != 4 {
		t.Errorf("ExitCode(validation) = %d, want 4", got)
	}
	if got := errors.ExitCode(errors.RateLimited("openai", nil)); got != 3 {
		t.Errorf("ExitCode(service) = %d, want 3", got)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.OutOfRange("word_limit", 50, 100, 10000)
	if err.Details["field"] != "word_limit" {
		t.Errorf("field detail = %v", err.Details["field"])
	}
	if err.Details["value"] != 50 {
		t.Errorf("value detail = %v", err.Details["value"])
	}
}
