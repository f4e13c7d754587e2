package ai

import (
	"context"
	stderrors "errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/docformat-toolkit/docformat/pkg/errors"
)

// RetryPolicy defines the retry strategy for formatter calls
type RetryPolicy struct {
	MaxAttempts        int           // Total attempts including the first (default: 3)
	BaseDelay          time.Duration // Delay before the first retry (default: 2s)
	RateLimitBaseDelay time.Duration // Delay before the first retry after a 429 (default: 5s)
	MaxDelay           time.Duration // Cap for ordinary retries (default: 60s)
	RateLimitMaxDelay  time.Duration // Cap for rate-limit retries (default: 120s)
	Multiplier         float64       // Exponential backoff multiplier (default: 2.0)
	Jitter             float64       // Upper bound of random extra delay, as a fraction (default: 0.1)
	Timeout            time.Duration // Timeout of the first attempt (default: 300s)
	TimeoutMultiplier  float64       // Per-attempt timeout growth (default: 0.5)
}

// DefaultRetryPolicy returns the default retry policy
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:        3,
		BaseDelay:          2 * time.Second,
		RateLimitBaseDelay: 5 * time.Second,
		MaxDelay:           60 * time.Second,
		RateLimitMaxDelay:  120 * time.Second,
		Multiplier:         2.0,
		Jitter:             0.1,
		Timeout:            300 * time.Second,
		TimeoutMultiplier:  0.5,
	}
}

// Backoff returns the delay before retrying after the given 0-based attempt
// failed, without jitter
func (p *RetryPolicy) Backoff(attempt int, rateLimited bool) time.Duration {
	base, ceiling := p.BaseDelay, p.MaxDelay
	if rateLimited {
		base, ceiling = p.RateLimitBaseDelay, p.RateLimitMaxDelay
	}
	delay := float64(base) * math.Pow(p.Multiplier, float64(attempt))
	if ceiling > 0 && delay > float64(ceiling) {
		return ceiling
	}
	return time.Duration(delay)
}

// AttemptTimeout returns the deadline for the given 0-based attempt
func (p *RetryPolicy) AttemptTimeout(attempt int) time.Duration {
	if p.Timeout <= 0 {
		return 0
	}
	return time.Duration(float64(p.Timeout) * (1 + float64(attempt)*p.TimeoutMultiplier))
}

// RetryExecutor executes formatter calls with retry logic
type RetryExecutor struct {
	policy *RetryPolicy
	logger *slog.Logger
	jitter func() float64
	sleep  func(ctx context.Context, d time.Duration) error
}

// RetryOption configures a RetryExecutor
type RetryOption func(*RetryExecutor)

// WithRetryLogger logs each retry decision
func WithRetryLogger(logger *slog.Logger) RetryOption {
	return func(re *RetryExecutor) {
		if logger != nil {
			re.logger = logger
		}
	}
}

// WithSleep replaces the wait between attempts
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) RetryOption {
	return func(re *RetryExecutor) {
		re.sleep = sleep
	}
}

// NewRetryExecutor creates a new retry executor with the given policy
func NewRetryExecutor(policy *RetryPolicy, opts ...RetryOption) *RetryExecutor {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	re := &RetryExecutor{
		policy: policy,
		logger: slog.New(slog.DiscardHandler),
		jitter: rand.Float64,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(re)
	}
	return re
}

// Policy returns the executor's policy
func (re *RetryExecutor) Policy() *RetryPolicy {
	return re.policy
}

// Execute calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. fn receives a context bounded by the attempt timeout.
// The error of the last attempt is returned unchanged.
func (re *RetryExecutor) Execute(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := max(re.policy.MaxAttempts, 1)

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := re.delay(attempt-1, errors.IsKind(lastErr, errors.KindRateLimit))
			re.logger.Info("retrying formatter call",
				"attempt", attempt+1,
				"max_attempts", attempts,
				"delay", delay.Round(100*time.Millisecond),
				"error", lastErr)
			if err := re.sleep(ctx, delay); err != nil {
				if stderrors.Is(err, context.Canceled) {
					return errors.Cancelled("formatter", err)
				}
				return errors.TimedOut("formatter", err)
			}
		}

		lastErr = re.call(ctx, attempt, fn)
		if lastErr == nil {
			return nil
		}
		if !errors.IsRetryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (re *RetryExecutor) call(ctx context.Context, attempt int, fn func(ctx context.Context, attempt int) error) error {
	if timeout := re.policy.AttemptTimeout(attempt); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return fn(ctx, attempt)
}

func (re *RetryExecutor) delay(attempt int, rateLimited bool) time.Duration {
	d := re.policy.Backoff(attempt, rateLimited)
	if re.policy.Jitter > 0 {
		d += time.Duration(float64(d) * re.policy.Jitter * re.jitter())
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
