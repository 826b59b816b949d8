package osal

import (
	"math"
	"strconv"
	"time"
)

// Wait is a bounded wait budget in milliseconds. Zero polls without
// blocking, negative waits forever.
type Wait int64

const (
	// NoWait polls once and never blocks.
	NoWait Wait = 0

	// WaitForever blocks until the condition holds or the primitive is
	// deleted.
	WaitForever Wait = -1
)

// WaitMsec returns a budget of msec milliseconds. Negative inputs clamp to
// NoWait; use WaitForever for an unbounded wait.
func WaitMsec(msec int64) Wait {
	if msec < 0 {
		return NoWait
	}
	return Wait(msec)
}

// WaitDuration converts a time.Duration into a wait budget, rounding down
// to whole milliseconds.
func WaitDuration(d time.Duration) Wait {
	return WaitMsec(d.Milliseconds())
}

// Forever reports whether the budget is unbounded.
func (w Wait) Forever() bool {
	return w < 0
}

// Msec returns the budget in milliseconds, -1 when unbounded.
func (w Wait) Msec() int64 {
	if w < 0 {
		return -1
	}
	return int64(w)
}

// Duration returns the budget as a time.Duration. Unbounded budgets map to
// the largest representable duration so timers built from them stay usable.
func (w Wait) Duration() time.Duration {
	if w < 0 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(w) * time.Millisecond
}

// String renders the budget for logs: "none", "forever" or "<n>ms".
func (w Wait) String() string {
	switch {
	case w < 0:
		return "forever"
	case w == 0:
		return "none"
	default:
		return strconv.FormatInt(int64(w), 10) + "ms"
	}
}
