// Package retry re-runs chain client queries that fail transiently. It wraps
// avast/retry-go with exponential backoff and lets callers mark errors that
// must never be retried, such as a client rejecting a request it cannot serve.
//
//	r := retry.New(
//	    retry.WithAttempts(4),
//	    retry.WithPermanentErrors(walletkit.ErrClientUnsupported),
//	)
//	err := r.Execute(ctx, func() (err error) {
//	    height, hash, err = client.GetBlockNumber(ctx, network)
//	    return err
//	})
package retry

import (
	"context"
	"errors"
	"time"

	retry "github.com/avast/retry-go/v4"
)

// Retry executes an operation until it succeeds, fails permanently, runs out
// of attempts or ctx ends.
type Retry interface {
	// Execute returns nil once operation succeeds. Otherwise it returns the
	// last error, or the context error when ctx ends between attempts.
	Execute(ctx context.Context, operation func() error) error
}

type config struct {
	attempts  uint
	delay     time.Duration
	maxDelay  time.Duration
	permanent []error
	onRetry   func(attempt uint, err error)
}

// Option configures a Retry.
type Option func(*config)

type retrier struct {
	cfg config
}

var _ Retry = (*retrier)(nil)

// New returns a Retry making 3 attempts with a backoff starting at 1s and
// capped at 5s, unless opts say otherwise.
func New(opts ...Option) Retry {
	cfg := config{
		attempts: 3,
		delay:    1 * time.Second,
		maxDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &retrier{
		cfg: cfg,
	}
}

func (r *retrier) Execute(ctx context.Context, operation func() error) error {
	options := []retry.Option{
		retry.Attempts(r.cfg.attempts),
		retry.Delay(r.cfg.delay),
		retry.MaxDelay(r.cfg.maxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(r.retryable),
	}
	if r.cfg.onRetry != nil {
		options = append(options, retry.OnRetry(r.cfg.onRetry))
	}

	return retry.Do(operation, options...)
}

func (r *retrier) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	for _, target := range r.cfg.permanent {
		if errors.Is(err, target) {
			return false
		}
	}
	return true
}

// WithAttempts sets the total number of attempts, the first one included.
func WithAttempts(n uint) Option {
	return func(c *config) {
		c.attempts = n
	}
}

// WithDelay sets the delay before the first retry. Later delays grow
// exponentially.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithMaxDelay caps the delay between two attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

// WithPermanentErrors stops retrying as soon as the operation fails with an
// error matching one of errs.
func WithPermanentErrors(errs ...error) Option {
	return func(c *config) {
		c.permanent = append(c.permanent, errs...)
	}
}

// WithOnRetry calls fn after every failed attempt that will be retried.
// attempt is zero based.
func WithOnRetry(fn func(attempt uint, err error)) Option {
	return func(c *config) {
		c.onRetry = fn
	}
}
