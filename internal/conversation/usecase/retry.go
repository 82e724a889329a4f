package usecase

import (
	"context"
	"time"
)

// Backoff is an exponential delay between gateway attempts. A zero Base disables waiting.
type Backoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

// DefaultBackoff waits 500ms, doubling up to 8s.
func DefaultBackoff() Backoff {
	return Backoff{Base: 500 * time.Millisecond, Max: 8 * time.Second, Factor: 2}
}

// Delay returns the wait before the given retry (1 for the first retry).
func (b Backoff) Delay(retry int) time.Duration {
	if b.Base <= 0 || retry <= 0 {
		return 0
	}
	factor := b.Factor
	if factor < 1 {
		factor = 1
	}

	d := float64(b.Base)
	for i := 1; i < retry; i++ {
		d *= factor
		if b.Max > 0 && d >= float64(b.Max) {
			return b.Max
		}
	}
	if b.Max > 0 && time.Duration(d) > b.Max {
		return b.Max
	}
	return time.Duration(d)
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
