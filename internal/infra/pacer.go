package infra

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum gap between consecutive dispatches. Callers are
// delayed, never rejected. A slot is claimed only when the caller is about
// to dispatch, so a caller that gives up while waiting holds nothing.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	clock    Clock
	next     time.Time // earliest time the next dispatch may start
}

// NewPacer creates a pacer allowing one dispatch per interval.
// A nil clock means the system clock.
func NewPacer(interval time.Duration, clock Clock) *Pacer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Pacer{interval: interval, clock: clock}
}

// Wait blocks until the caller may dispatch. It returns ctx.Err() without
// claiming a slot when ctx is done first.
func (p *Pacer) Wait(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		p.mu.Lock()
		now := p.clock.Now()
		if !p.next.After(now) {
			p.next = now.Add(p.interval)
			p.mu.Unlock()
			return nil
		}
		d := p.next.Sub(now)
		p.mu.Unlock()

		if err := p.clock.Sleep(ctx, d); err != nil {
			return err
		}
	}
}
