package limiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter throttles deletions to a fixed number of operations per second,
// keeping one-shot runs from saturating a station's disk or network link.
type Limiter struct {
	l *rate.Limiter
}

// New creates a deletion limiter. A rate of zero (or negative) disables
// throttling.
func New(opsPerSecond float64) *Limiter {
	if opsPerSecond <= 0 {
		return &Limiter{}
	}
	return &Limiter{l: rate.NewLimiter(rate.Limit(opsPerSecond), 1)}
}

// Wait blocks until the next deletion is allowed, or the context is
// canceled. Unlimited limiters never block.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.l == nil {
		return nil
	}
	return l.l.Wait(ctx)
}
