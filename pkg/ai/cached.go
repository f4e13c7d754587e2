package ai

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/docformat-toolkit/docformat/pkg/cache"
	"github.com/docformat-toolkit/docformat/pkg/observability"
)

// Metric names recorded by CachedFormatter
const (
	MetricCacheHits   = "formatter.cache_hits"
	MetricCacheMisses = "formatter.cache_misses"
)

// CachedFormatter serves repeated prompts from a cache
type CachedFormatter struct {
	next    Formatter
	cache   cache.Cache
	keys    *cache.KeyGenerator
	model   string
	ttl     time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewCachedFormatter wraps next. model distinguishes entries of different
// models on the same backend; ttl of zero keeps entries forever.
func NewCachedFormatter(next Formatter, c cache.Cache, model string, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *CachedFormatter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CachedFormatter{
		next:    next,
		cache:   c,
		keys:    cache.NewKeyGenerator(),
		model:   model,
		ttl:     ttl,
		logger:  logger,
		metrics: metrics,
	}
}

// Format implements Formatter
func (f *CachedFormatter) Format(ctx context.Context, prompt string) (string, error) {
	key := f.keys.ForPrompt(f.next.Type().String(), f.model, prompt)

	value, err := f.cache.Get(ctx, key)
	switch {
	case err == nil:
		f.metrics.Inc(MetricCacheHits)
		return string(value), nil
	case !stderrors.Is(err, cache.ErrCacheMiss):
		f.logger.Warn("formatter cache read failed", "error", err)
	}
	f.metrics.Inc(MetricCacheMisses)

	out, err := f.next.Format(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := f.cache.Set(ctx, key, []byte(out), f.ttl); err != nil {
		f.logger.Warn("formatter cache write failed", "error", err)
	}
	return out, nil
}

// Type implements Formatter
func (f *CachedFormatter) Type() BackendType {
	return f.next.Type()
}
