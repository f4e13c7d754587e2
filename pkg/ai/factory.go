package ai

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/docformat-toolkit/docformat/pkg/cache"
	"github.com/docformat-toolkit/docformat/pkg/config"
	"github.com/docformat-toolkit/docformat/pkg/errors"
	"github.com/docformat-toolkit/docformat/pkg/observability"
)

// Factory creates Formatter instances based on configuration
type Factory struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	getenv  func(string) string
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithFactoryLogger sets the logger handed to created backends
func WithFactoryLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFactoryMetrics sets the metrics registry handed to created backends
func WithFactoryMetrics(m *observability.Metrics) FactoryOption {
	return func(f *Factory) {
		f.metrics = m
	}
}

// WithEnv replaces the environment lookup used for API keys
func WithEnv(getenv func(string) string) FactoryOption {
	return func(f *Factory) {
		if getenv != nil {
			f.getenv = getenv
		}
	}
}

// NewFactory creates a new Formatter factory
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		logger: slog.New(slog.DiscardHandler),
		getenv: os.Getenv,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds the backend named by cfg.Backend, wrapped in a cache when
// cfg.Cache.Enabled is set. An empty backend defaults to BackendOpenAI.
func (f *Factory) Create(cfg config.FormatterConfig) (Formatter, error) {
	backend := BackendType(cfg.Backend)
	if backend == "" {
		backend = BackendOpenAI
	}
	if !backend.IsValid() {
		return nil, errors.InvalidConfig(fmt.Sprintf("invalid formatter backend: %s", backend), nil).
			WithDetail("field", "formatter.backend")
	}

	policy, err := retryPolicy(cfg)
	if err != nil {
		return nil, err
	}
	retry := NewRetryExecutor(policy, WithRetryLogger(f.logger))
	logger := f.logger.With("backend", backend.String())

	var formatter Formatter
	switch backend {
	case BackendOpenAI:
		formatter, err = NewOpenAIFormatter(f.getenv(APIKeyEnv),
			WithModel(cfg.Model),
			WithBaseURL(cfg.BaseURL),
			WithRetry(retry),
			WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
	case BackendClaude:
		formatter = NewClaudeFormatter(
			WithClaudePath(cfg.ClaudePath),
			WithClaudeModel(cfg.Model),
			WithClaudeRetry(retry),
			WithClaudeLogger(logger),
		)
	case BackendEcho:
		formatter = NewEchoFormatter()
	}

	if !cfg.Cache.Enabled || backend == BackendEcho {
		return formatter, nil
	}

	ttl, err := parseDuration("formatter.cache.ttl", cfg.Cache.TTL)
	if err != nil {
		return nil, err
	}
	var c cache.Cache = cache.NewMemoryCache()
	if cfg.Cache.Dir != "" {
		c = cache.NewDiskCache(cfg.Cache.Dir)
	}
	return NewCachedFormatter(formatter, c, cfg.Model, ttl, logger, f.metrics), nil
}

func retryPolicy(cfg config.FormatterConfig) (*RetryPolicy, error) {
	policy := DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}
	timeout, err := parseDuration("formatter.timeout", cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		policy.Timeout = timeout
	}
	return policy, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.InvalidConfig(fmt.Sprintf("invalid duration %q", value), err).WithDetail("field", field)
	}
	return d, nil
}
