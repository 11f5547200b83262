package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/phrazzld/creator-api/internal/generation"
)

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = 2 * time.Second
)

type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
	// jitter returns a factor in [0.5, 1.0).
	jitter func() float64
}

func newRetryPolicy(maxRetries, delaySeconds int) retryPolicy {
	p := retryPolicy{
		maxRetries: maxRetries,
		baseDelay:  time.Duration(delaySeconds) * time.Second,
		jitter:     func() float64 { return 0.5 + rand.Float64()*0.5 },
	}
	if p.maxRetries < 0 {
		p.maxRetries = defaultMaxRetries
	}
	if p.baseDelay <= 0 {
		p.baseDelay = defaultBaseDelay
	}
	return p
}

// delay is baseDelay * 2^attempt scaled by jitter.
func (p retryPolicy) delay(attempt int) time.Duration {
	backoff := float64(p.baseDelay) * math.Pow(2, float64(attempt))
	return time.Duration(backoff * p.jitter())
}

// do runs op until it succeeds, fails permanently, or the retries run out.
// Only errors wrapping generation.ErrTransientFailure are retried.
func (p retryPolicy) do(ctx context.Context, log *slog.Logger, op string, fn func(context.Context) error) error {
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 0 {
				log.InfoContext(ctx, "gemini call succeeded after retry",
					"operation", op, "attempt", attempt+1)
			}
			return nil
		}

		if !errors.Is(err, generation.ErrTransientFailure) {
			log.WarnContext(ctx, "gemini call failed permanently",
				"operation", op, "attempt", attempt+1, "error", err)
			return err
		}
		if attempt >= p.maxRetries {
			log.WarnContext(ctx, "gemini retries exhausted",
				"operation", op, "max_retries", p.maxRetries, "error", err)
			return fmt.Errorf("%w (after %d attempts)", err, attempt+1)
		}

		wait := p.delay(attempt)
		log.InfoContext(ctx, "retrying gemini call",
			"operation", op, "attempt", attempt+1, "delay", wait, "error", err)

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}
}
