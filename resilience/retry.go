package resilience

import (
	"context"
	"math"
	"time"
)

// retry calls fn until it succeeds, retryable reports false, attempts run
// out or ctx is done. It returns the last error.
func retry(ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func() error) error {
	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if err != nil {
				return err
			}
			return ctxErr
		}
		if err = fn(); err == nil || !retryable(err) || attempt == cfg.MaxAttempts {
			return err
		}
		timer := time.NewTimer(backoff(cfg, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
	return err
}

// backoff is InitialBackoff * BackoffFactor^(attempt-1), capped at MaxBackoff.
func backoff(cfg RetryConfig, attempt int) time.Duration {
	d := float64(cfg.InitialBackoff) * math.Pow(cfg.BackoffFactor, float64(attempt-1))
	if d > float64(cfg.MaxBackoff) {
		return cfg.MaxBackoff
	}
	return time.Duration(d)
}
