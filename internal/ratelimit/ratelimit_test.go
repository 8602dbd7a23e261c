package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacer_CooldownAfterEachBurst(t *testing.T) {
	p := NewPacer(0, 2, time.Minute)

	var slept []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	for i := 0; i < 5; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}

	// Burst of 2: cooldowns before calls 3 and 5.
	if len(slept) != 2 {
		t.Fatalf("expected 2 cooldowns across 5 calls with burst 2, got %d", len(slept))
	}
	for _, d := range slept {
		if d != time.Minute {
			t.Errorf("expected cooldown of 1m, got %v", d)
		}
	}
}

func TestPacer_NoCooldownWithinFirstBurst(t *testing.T) {
	p := NewPacer(0, 5, time.Minute)

	p.sleep = func(ctx context.Context, d time.Duration) error {
		t.Errorf("unexpected cooldown of %v within the first burst", d)
		return nil
	}

	for i := 0; i < 5; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
}

func TestPacer_BurstZeroDisablesCooldown(t *testing.T) {
	p := NewPacer(0, 0, time.Minute)

	p.sleep = func(ctx context.Context, d time.Duration) error {
		t.Errorf("cooldown should be disabled with burst 0, slept %v", d)
		return nil
	}

	for i := 0; i < 10; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}

	if got := p.Calls(); got != 10 {
		t.Errorf("expected 10 admitted calls, got %d", got)
	}
}

func TestPacer_CanceledContext(t *testing.T) {
	p := NewPacer(0, 2, time.Minute)
	p.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// First two calls skip the cooldown; the third hits it and must observe
	// the canceled context instead of blocking for a minute.
	_ = p.Wait(context.Background())
	_ = p.Wait(context.Background())
	if err := p.Wait(ctx); err == nil {
		t.Error("expected context cancellation error from cooldown wait")
	}
}
