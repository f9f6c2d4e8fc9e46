package game

import "math/rand/v2"

// ShootBudget rate-limits shooting-star events across one field's star set.
// It is owned by the Field and passed by pointer into every star update, so
// two fields never share counters. Safe without locking only because a field
// ticks on a single goroutine.
type ShootBudget struct {
	Enabled         bool
	MaxAtOnce       int
	MaxDurationSecs float64 // upper bound for one shoot's duration
	MaxEventSecs    float64 // upper bound for the randomized inter-event delay

	active    int     // stars currently shooting
	lastStart float64 // timestamp (ms) of the last event start
	nextDelay float64 // ms that must elapse after lastStart before the next event
	started   bool    // false until the first event has been recorded
}

// minEventDelayMS is the lower bound of the randomized inter-event delay.
const minEventDelayMS = 100

// Active returns how many stars are currently shooting.
func (b *ShootBudget) Active() int { return b.active }

// Allows reports whether a new shoot event may start at time now (ms).
func (b *ShootBudget) Allows(now float64) bool {
	if !b.Enabled || b.MaxAtOnce <= 0 {
		return false
	}
	if b.active >= b.MaxAtOnce {
		return false
	}
	if !b.started {
		return true
	}
	return now-b.lastStart >= b.nextDelay
}

// Start records a new shoot event at time now and draws a fresh random delay
// in [0.1s, MaxEventSecs] before the next one is permitted. The caller must
// have checked Allows.
func (b *ShootBudget) Start(now float64) {
	b.active++
	b.lastStart = now
	b.started = true
	maxMS := b.MaxEventSecs * 1000
	if maxMS < minEventDelayMS {
		maxMS = minEventDelayMS
	}
	b.nextDelay = minEventDelayMS + rand.Float64()*(maxMS-minEventDelayMS)
}

// Release returns one unit to the budget when a shoot completes.
func (b *ShootBudget) Release() {
	if b.active > 0 {
		b.active--
	}
}

// Duration draws a random shoot duration in ms, bounded by MaxDurationSecs.
func (b *ShootBudget) Duration() float64 {
	maxMS := b.MaxDurationSecs * 1000
	if maxMS < 500 {
		maxMS = 500
	}
	return 500 + rand.Float64()*(maxMS-500)
}
