package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate is a shared request pacer. One gate per target host keeps the whole
// campaign at the configured interval, no matter how many callers fetch
// through it.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate allows one request per interval, with no burst beyond the first.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Gate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next request slot or context cancellation.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
