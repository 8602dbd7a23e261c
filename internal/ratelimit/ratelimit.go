// Package ratelimit paces outbound requests against provider quotas.
package ratelimit

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum gap between calls via a token bucket, plus a
// longer cooldown after every burst-sized group of calls. That keeps a
// sequential batch under a "burst requests per cooldown" ceiling without
// a worst-case sleep before every call.
type Pacer struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	burst    int
	cooldown time.Duration
	calls    int

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPacer(gap time.Duration, burst int, cooldown time.Duration) *Pacer {
	return &Pacer{
		limiter:  rate.NewLimiter(rate.Every(gap), 1),
		burst:    burst,
		cooldown: cooldown,
		sleep:    sleepCtx,
	}
}

// Wait blocks until the next call is allowed. Call it before every request.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	needCooldown := p.burst > 0 && p.calls > 0 && p.calls%p.burst == 0
	p.calls++
	p.mu.Unlock()

	if needCooldown {
		log.Printf("Rate limit cooldown: waiting %v after %d calls", p.cooldown, p.burst)
		if err := p.sleep(ctx, p.cooldown); err != nil {
			return err
		}
	}

	return p.limiter.Wait(ctx)
}

// Calls returns how many calls have been admitted so far.
func (p *Pacer) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
