package retry

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds the parameters for a bounded retry loop.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration // caps the exponential backoff when > 0
}

// IsRetryableFunc reports whether an error is transient and worth retrying.
type IsRetryableFunc func(err error) bool

// OperationFunc is the unit of work executed under retry.
type OperationFunc func(ctx context.Context) error

// Do executes the operation, retrying with exponential backoff while the
// error is retryable and the attempt budget is not exhausted. The last
// operation error is returned; a context cancellation during backoff also
// returns the last operation error so callers can report what actually failed.
func Do(ctx context.Context, cfg Config, operation OperationFunc, isRetryable IsRetryableFunc, operationName string) error {
	if cfg.MaxAttempts <= 0 {
		return errors.New("retry: MaxAttempts must be greater than 0")
	}
	if operation == nil {
		return errors.New("retry: nil operation")
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return lastErr
			}
			return ctx.Err()
		default:
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) || attempt == cfg.MaxAttempts {
			log.Debug().Err(lastErr).
				Str("operation", operationName).
				Int("attempt", attempt).
				Bool("retryable", isRetryable(lastErr)).
				Msg("Giving up on operation")
			return lastErr
		}

		log.Warn().Err(lastErr).
			Str("operation", operationName).
			Int("attempt", attempt).
			Int("max_attempts", cfg.MaxAttempts).
			Dur("retry_after", delay).
			Msg("Transient error, scheduling retry")

		select {
		case <-time.After(delay):
			delay *= 2
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		case <-ctx.Done():
			return lastErr
		}
	}

	return lastErr
}
