package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(opts ...Option) Retry {
	return New(append([]Option{WithDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond)}, opts...)...)
}

func TestRetry_Execute(t *testing.T) {
	t.Run("successful operation", func(t *testing.T) {
		r := fast()
		callCount := 0

		err := r.Execute(t.Context(), func() error {
			callCount++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, callCount)
	})

	t.Run("retry until success", func(t *testing.T) {
		r := fast(WithAttempts(3))
		callCount := 0

		err := r.Execute(t.Context(), func() error {
			callCount++
			if callCount < 2 {
				return errors.New("connection reset")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, callCount)
	})

	t.Run("retry exhausted returns the last error", func(t *testing.T) {
		r := fast(WithAttempts(3))
		callCount := 0
		expectedErr := errors.New("node unavailable")

		err := r.Execute(t.Context(), func() error {
			callCount++
			return expectedErr
		})

		assert.ErrorIs(t, err, expectedErr)
		assert.Equal(t, 3, callCount)
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		unsupported := errors.New("client does not support request")
		r := fast(WithAttempts(5), WithPermanentErrors(unsupported))
		callCount := 0

		err := r.Execute(t.Context(), func() error {
			callCount++
			return errors.Join(unsupported, errors.New("getTransactions"))
		})

		assert.ErrorIs(t, err, unsupported)
		assert.Equal(t, 1, callCount)
	})

	t.Run("on retry observes every retried failure", func(t *testing.T) {
		var attempts []uint
		r := fast(WithAttempts(3), WithOnRetry(func(attempt uint, err error) {
			attempts = append(attempts, attempt)
		}))

		err := r.Execute(t.Context(), func() error {
			return assert.AnError
		})

		assert.ErrorIs(t, err, assert.AnError)
		require.GreaterOrEqual(t, len(attempts), 2)
		assert.Equal(t, []uint{0, 1}, attempts[:2])
	})

	t.Run("context cancellation", func(t *testing.T) {
		r := New(
			WithAttempts(5),
			WithDelay(100*time.Millisecond),
		)
		callCount := 0

		ctx, cancel := context.WithCancel(t.Context())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		err := r.Execute(ctx, func() error {
			callCount++
			return errors.New("timeout fetching block number")
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, callCount)
	})
}

func TestRetry_Options(t *testing.T) {
	t.Run("default options", func(t *testing.T) {
		r := New()
		retrier, ok := r.(*retrier)
		require.True(t, ok)

		assert.Equal(t, uint(3), retrier.cfg.attempts)
		assert.Equal(t, 1*time.Second, retrier.cfg.delay)
		assert.Equal(t, 5*time.Second, retrier.cfg.maxDelay)
		assert.Empty(t, retrier.cfg.permanent)
	})

	t.Run("custom options", func(t *testing.T) {
		r := New(
			WithAttempts(5),
			WithDelay(2*time.Second),
			WithMaxDelay(10*time.Second),
			WithPermanentErrors(assert.AnError),
		)
		retrier, ok := r.(*retrier)
		require.True(t, ok)

		assert.Equal(t, uint(5), retrier.cfg.attempts)
		assert.Equal(t, 2*time.Second, retrier.cfg.delay)
		assert.Equal(t, 10*time.Second, retrier.cfg.maxDelay)
		assert.Equal(t, []error{assert.AnError}, retrier.cfg.permanent)
	})
}
