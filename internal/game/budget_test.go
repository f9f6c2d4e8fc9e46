package game

import (
	"math/rand/v2"
	"testing"
)

func TestBudgetDisabledNeverAllows(t *testing.T) {
	b := ShootBudget{Enabled: false, MaxAtOnce: 5, MaxEventSecs: 1}
	if b.Allows(0) {
		t.Error("disabled budget must not allow events")
	}
	b.Enabled = true
	b.MaxAtOnce = 0
	if b.Allows(0) {
		t.Error("zero cap must not allow events")
	}
}

func TestBudgetConcurrencyCap(t *testing.T) {
	b := ShootBudget{Enabled: true, MaxAtOnce: 3, MaxDurationSecs: 3, MaxEventSecs: 0.2}

	now := 0.0
	started := 0
	for i := 0; i < 100; i++ {
		if b.Allows(now) {
			b.Start(now)
			started++
		}
		now += 10000 // far past any possible delay
		if b.Active() > 3 {
			t.Fatalf("active = %d exceeds cap 3", b.Active())
		}
	}
	if b.Active() != 3 {
		t.Fatalf("active = %d, want saturated cap 3", b.Active())
	}
	if started != 3 {
		t.Fatalf("started = %d, want 3", started)
	}

	b.Release()
	if !b.Allows(now + 10000) {
		t.Error("releasing a slot should allow a new event once the delay passed")
	}
}

func TestBudgetInterEventDelay(t *testing.T) {
	b := ShootBudget{Enabled: true, MaxAtOnce: 10, MaxDurationSecs: 3, MaxEventSecs: 5}

	if !b.Allows(0) {
		t.Fatal("fresh budget should allow the first event")
	}
	b.Start(0)

	// The randomized delay is at least 100ms and at most MaxEventSecs.
	if b.Allows(50) {
		t.Error("event 50ms after start must be blocked by the minimum delay")
	}
	if !b.Allows(5*1000 + 1) {
		t.Error("event after the maximum delay bound must be allowed")
	}
}

func TestBudgetDelayRerolledEachStart(t *testing.T) {
	b := ShootBudget{Enabled: true, MaxAtOnce: 100, MaxDurationSecs: 3, MaxEventSecs: 60}
	seen := map[float64]bool{}
	now := 0.0
	for i := 0; i < 20; i++ {
		b.Start(now)
		seen[b.nextDelay] = true
		if b.nextDelay < minEventDelayMS || b.nextDelay > 60*1000 {
			t.Fatalf("delay %v outside [%v, 60000]", b.nextDelay, minEventDelayMS)
		}
		now += 120 * 1000
	}
	if len(seen) < 2 {
		t.Error("delay should be re-rolled on each event start")
	}
}

func TestBudgetCapHoldsUnderRandomSequence(t *testing.T) {
	b := ShootBudget{Enabled: true, MaxAtOnce: 4, MaxDurationSecs: 2, MaxEventSecs: 1}
	now := 0.0
	for i := 0; i < 5000; i++ {
		now += rand.Float64() * 500
		switch {
		case rand.Float64() < 0.5 && b.Allows(now):
			b.Start(now)
		case b.Active() > 0 && rand.Float64() < 0.3:
			b.Release()
		}
		if b.Active() > 4 {
			t.Fatalf("step %d: active = %d exceeds cap", i, b.Active())
		}
		if b.Active() < 0 {
			t.Fatalf("step %d: active went negative", i)
		}
	}
}

func TestBudgetDurationBounds(t *testing.T) {
	b := ShootBudget{Enabled: true, MaxAtOnce: 1, MaxDurationSecs: 3, MaxEventSecs: 9}
	for i := 0; i < 100; i++ {
		d := b.Duration()
		if d < 500 || d > 3000 {
			t.Fatalf("duration %v outside [500, 3000]", d)
		}
	}
}
