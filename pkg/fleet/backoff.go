package fleet

import (
	"math/rand"
	"time"
)

// Backoff produces capped exponential delays for retry loops. The zero
// value is unusable; construct with NewBackoff.
type Backoff struct {
	base time.Duration
	max  time.Duration
	cur  time.Duration
}

// NewBackoff returns a Backoff that starts at base and doubles up to max.
func NewBackoff(base, max time.Duration) *Backoff { return &Backoff{base: base, max: max} }

// Next advances the backoff and returns the delay to wait, jittered.
func (b *Backoff) Next() time.Duration {
	if b.cur <= 0 {
		b.cur = b.base
	} else {
		b.cur *= 2
		if b.cur > b.max {
			b.cur = b.max
		}
	}
	// jitter ~ +/-20%
	j := 0.8 + 0.4*rand.Float64()
	return time.Duration(float64(b.cur) * j)
}

// Sleep advances the backoff and blocks for the jittered delay.
func (b *Backoff) Sleep() { time.Sleep(b.Next()) }

// Reset returns the backoff to its initial state.
func (b *Backoff) Reset() { b.cur = 0 }
