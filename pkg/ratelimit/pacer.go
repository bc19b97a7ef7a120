package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter defines the interface for pacing external calls
type Limiter interface {
	// Wait blocks until the pacing policy allows another call
	Wait(ctx context.Context) error
	// Reset forgets the last call time
	Reset()
}

// Pacer enforces a fixed minimum interval between consecutive calls.
// The delay is a quota-and-suspension-avoidance policy, not a transport
// requirement: scraping paces 2s between accounts, summarization 1s
// between API calls.
type Pacer struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewPacer creates a pacer with the given inter-call interval
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the configured interval has elapsed since the previous
// call. The first call never waits.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	var wait time.Duration
	if !p.last.IsZero() {
		elapsed := time.Since(p.last)
		if elapsed < p.interval {
			wait = p.interval - elapsed
		}
	}
	p.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
	return nil
}

// Reset forgets the last call, so the next Wait returns immediately
func (p *Pacer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = time.Time{}
}
