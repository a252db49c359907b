package backoff

import (
	"context"
	"time"
)

// Backoff sleeps for exponentially growing periods, capped at limit.
type Backoff struct {
	Next  time.Duration
	start time.Duration
	limit time.Duration
}

func NewExponential(start time.Duration, limit time.Duration) *Backoff {
	b := &Backoff{start: start, limit: limit}
	b.Reset()
	return b
}

func (b *Backoff) Reset() {
	b.Next = b.start
}

// Wait blocks for the current period and doubles it. It returns ctx.Err()
// if ctx is done first.
func (b *Backoff) Wait(ctx context.Context) error {
	t := time.NewTimer(b.Next)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	b.Next *= 2
	if b.limit > 0 && b.Next > b.limit {
		b.Next = b.limit
	}
	return nil
}
