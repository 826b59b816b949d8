package fleet

import (
	"testing"
	"time"
)

func TestBackoffGrowsAndCaps(t *testing.T) {
	b := NewBackoff(10*time.Millisecond, 80*time.Millisecond)

	wants := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		80 * time.Millisecond,
		80 * time.Millisecond,
	}
	for i, want := range wants {
		got := b.Next()
		lo := time.Duration(float64(want) * 0.8)
		hi := time.Duration(float64(want) * 1.2)
		if got < lo || got > hi {
			t.Errorf("Next #%d = %v, want within [%v, %v]", i+1, got, lo, hi)
		}
	}
}

func TestBackoffReset(t *testing.T) {
	b := NewBackoff(10*time.Millisecond, 80*time.Millisecond)
	b.Next()
	b.Next()
	b.Reset()

	got := b.Next()
	lo := 8 * time.Millisecond
	hi := 12 * time.Millisecond
	if got < lo || got > hi {
		t.Errorf("Next after Reset = %v, want within [%v, %v]", got, lo, hi)
	}
}
