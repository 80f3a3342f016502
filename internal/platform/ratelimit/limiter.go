package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter gates outbound requests. Wait blocks until a token is available or
// the context is done. A single Limiter is shared across all workers talking
// to the same upstream so concurrency never multiplies the request rate.
type Limiter interface {
	Wait(ctx context.Context) error
}

type tokenBucket struct {
	limiter *rate.Limiter
}

// New returns a token-bucket Limiter allowing rps requests per second with
// the given burst. Non-positive values fall back to 1.
func New(rps float64, burst int) Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &tokenBucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t *tokenBucket) Wait(ctx context.Context) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for rate limit token: %w", err)
	}

	return nil
}

type nopLimiter struct{}

// Nop returns a Limiter that never blocks. Used in tests and for callers that
// handle pacing themselves.
func Nop() Limiter {
	return nopLimiter{}
}

func (nopLimiter) Wait(ctx context.Context) error {
	return ctx.Err()
}
