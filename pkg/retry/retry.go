package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	MaxTotalTimeout time.Duration
}

// DefaultConfig returns a default retry configuration with 1 minute max timeout
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     10,
		InitialDelay:    100 * time.Millisecond,
		MaxDelay:        10 * time.Second,
		BackoffFactor:   2.0,
		MaxTotalTimeout: 60 * time.Second,
	}
}

// SingleConfig retries exactly once after a short delay. This matches the
// retry budget the mobile client gave its discovery reads: one automatic
// retry, never more.
func SingleConfig() Config {
	return Config{
		MaxAttempts:   2,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      200 * time.Millisecond,
		BackoffFactor: 1.0,
	}
}

// Do executes the given function with exponential backoff retry logic
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxTotalTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt-1, ctx.Err(), lastErr)
			}
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if attempt == cfg.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt, ctx.Err(), lastErr)
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return fmt.Errorf("max retry attempts exceeded: %w", lastErr)
}

// DoIf behaves like Do but only retries when shouldRetry returns true for the
// observed error. Non-retryable errors are returned immediately.
func DoIf(ctx context.Context, cfg Config, shouldRetry func(error) bool, fn func() error) error {
	var wrapped error
	err := Do(ctx, cfg, func() error {
		err := fn()
		if err != nil && !shouldRetry(err) {
			wrapped = err
			return nil
		}
		return err
	})
	if wrapped != nil {
		return wrapped
	}
	return err
}
