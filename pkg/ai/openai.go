package ai

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/docformat-toolkit/docformat/pkg/errors"
)

const (
	// DefaultOpenAIModel is used when no model is configured
	DefaultOpenAIModel = "gpt-4"
	// DefaultOpenAIBaseURL is the public OpenAI API
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// APIKeyEnv names the environment variable holding the API key
	APIKeyEnv = "OPENAI_API_KEY"

	providerOpenAI   = "OpenAI"
	maxResponseBytes = 32 << 20
)

// OpenAIFormatter calls an OpenAI-compatible chat completions endpoint
type OpenAIFormatter struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	retry   *RetryExecutor
	logger  *slog.Logger
}

// OpenAIOption configures an OpenAIFormatter
type OpenAIOption func(*OpenAIFormatter)

// WithModel sets the model name
func WithModel(model string) OpenAIOption {
	return func(f *OpenAIFormatter) {
		if model != "" {
			f.model = model
		}
	}
}

// WithBaseURL points the client at another compatible endpoint
func WithBaseURL(url string) OpenAIOption {
	return func(f *OpenAIFormatter) {
		if url != "" {
			f.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(f *OpenAIFormatter) {
		if client != nil {
			f.client = client
		}
	}
}

// WithRetry replaces the retry executor
func WithRetry(re *RetryExecutor) OpenAIOption {
	return func(f *OpenAIFormatter) {
		if re != nil {
			f.retry = re
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) OpenAIOption {
	return func(f *OpenAIFormatter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewOpenAIFormatter creates an OpenAI backend. An empty apiKey is an
// authentication error.
func NewOpenAIFormatter(apiKey string, opts ...OpenAIOption) (*OpenAIFormatter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.AuthenticationFailed(providerOpenAI, fmt.Errorf("%s is not set", APIKeyEnv))
	}
	f := &OpenAIFormatter{
		apiKey:  apiKey,
		model:   DefaultOpenAIModel,
		baseURL: DefaultOpenAIBaseURL,
		client:  &http.Client{},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.retry == nil {
		f.retry = NewRetryExecutor(nil, WithRetryLogger(f.logger))
	}
	return f, nil
}

// Format implements Formatter
func (f *OpenAIFormatter) Format(ctx context.Context, prompt string) (string, error) {
	var out string
	err := f.retry.Execute(ctx, func(ctx context.Context, attempt int) error {
		text, err := f.complete(ctx, prompt)
		if err != nil {
			f.logger.Debug("chat completion failed", "attempt", attempt+1, "model", f.model, "error", err)
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// Type implements Formatter
func (f *OpenAIFormatter) Type() BackendType {
	return BackendOpenAI
}

// Model returns the configured model
func (f *OpenAIFormatter) Model() string {
	return f.model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (f *OpenAIFormatter) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    f.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", errors.InvalidResponse(providerOpenAI, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.ConnectionFailed(providerOpenAI, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", classifyTransportError(ctx, err)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errors.InvalidResponse(providerOpenAI, "malformed JSON body")
	}
	for _, c := range parsed.Choices {
		if text := strings.TrimSpace(c.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", errors.InvalidResponse(providerOpenAI, "response contained no text")
}

func classifyTransportError(ctx context.Context, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(ctx.Err(), context.Canceled) {
		return errors.Cancelled(providerOpenAI, err)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.TimedOut(providerOpenAI, err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.TimedOut(providerOpenAI, err)
	}
	return errors.ConnectionFailed(providerOpenAI, err)
}

func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	cause := fmt.Errorf("HTTP %d", status)
	var parsed chatResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil && parsed.Error.Message != "" {
		cause = fmt.Errorf("HTTP %d: %s", status, parsed.Error.Message)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.AuthenticationFailed(providerOpenAI, cause)
	case status == http.StatusTooManyRequests:
		return errors.RateLimited(providerOpenAI, cause)
	case status == http.StatusRequestTimeout || status >= 500:
		return errors.ConnectionFailed(providerOpenAI, cause)
	default:
		return errors.InvalidResponse(providerOpenAI, cause.Error())
	}
}
