package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig(maxRetries int) Config {
	return Config{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2,
	}
}

func TestRetrier_Execute(t *testing.T) {
	permanent := errors.New("permanent")

	tests := []struct {
		name          string
		failures      int
		retryable     func(error) bool
		maxRetries    int
		expectErr     bool
		expectCalls   int
		expectRetries int
	}{
		{
			name:        "succeeds first time",
			failures:    0,
			maxRetries:  3,
			expectCalls: 1,
		},
		{
			name:          "succeeds after failures",
			failures:      2,
			maxRetries:    3,
			expectCalls:   3,
			expectRetries: 2,
		},
		{
			name:          "gives up after max retries",
			failures:      10,
			maxRetries:    2,
			expectErr:     true,
			expectCalls:   3,
			expectRetries: 2,
		},
		{
			name:        "stops on non retryable error",
			failures:    10,
			maxRetries:  5,
			retryable:   func(err error) bool { return !errors.Is(err, permanent) },
			expectErr:   true,
			expectCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := fastConfig(tt.maxRetries)
			cfg.RetryableFunc = tt.retryable
			retries := 0
			cfg.OnRetry = func(int, time.Duration, error) { retries++ }
			r := New(cfg)

			calls := 0
			fn := func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return permanent
				}
				return nil
			}

			// Act
			err := r.Execute(context.Background(), fn)

			// Assert
			if tt.expectErr {
				assert.ErrorIs(t, err, permanent)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectCalls, calls)
			assert.Equal(t, tt.expectRetries, retries)
		})
	}
}

func TestRetrier_ContextCancelled(t *testing.T) {
	cfg := fastConfig(100)
	cfg.BaseDelay = 50 * time.Millisecond
	r := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Execute(ctx, func(context.Context) error { return errors.New("down") })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetrier_CalculateDelayCapped(t *testing.T) {
	r := New(Config{BaseDelay: time.Second, MaxDelay: 3 * time.Second, Multiplier: 2})

	assert.Equal(t, time.Second, r.calculateDelay(0))
	assert.Equal(t, 2*time.Second, r.calculateDelay(1))
	assert.Equal(t, 3*time.Second, r.calculateDelay(5))
}
