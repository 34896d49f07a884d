package service

import (
	"context"
	"math/rand/v2"
	"time"
)

const maxBackoff = time.Second

// backoff returns base*2^attempt, capped at maxBackoff, plus up to half of
// that again as jitter.
func backoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	exp := base
	for i := 0; i < attempt && exp < maxBackoff; i++ {
		exp *= 2
	}
	if exp > maxBackoff {
		exp = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(exp/2) + 1))
	return exp + jitter
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
