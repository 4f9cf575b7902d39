package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"procurement-dashboard/internal/model"
	"time"
)

// Retry calls fn until it succeeds, the policy's attempts are used up or
// ctx ends. A policy with fewer than two attempts calls fn once.
func Retry(ctx context.Context, policy model.RetryPolicy, op string, logger *slog.Logger, fn func(context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			if attempt > 1 {
				logger.Info("retry succeeded", "op", op, "attempt", attempt)
			}
			return nil
		}
		if !isRetryable(err) || attempt == attempts {
			break
		}

		delay := backoffDelay(policy, attempt)
		logger.Warn("retrying", "op", op, "attempt", attempt, "of", attempts, "delay", delay, "error", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w (last error: %v)", op, ctx.Err(), err)
		case <-timer.C:
		}
	}
	return err
}

// backoffDelay is the wait after the given failed attempt: exponential from
// InitialDelay, capped at MaxDelay, with up to ±5% jitter.
func backoffDelay(policy model.RetryPolicy, attempt int) time.Duration {
	multiplier := policy.BackoffMultiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := time.Duration(float64(policy.InitialDelay) * math.Pow(multiplier, float64(attempt-1)))

	if policy.MaxDelay > 0 && delay > policy.MaxDelay {
		delay = policy.MaxDelay
	}

	if policy.Jitter && delay > 0 {
		delay += time.Duration(float64(delay) * 0.1 * (rand.Float64() - 0.5))
	}
	return delay
}

func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
