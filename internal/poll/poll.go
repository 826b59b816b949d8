// Package poll provides bounded predicate polling for the verify helpers:
// start/stop verification samples a worker state at a fixed interval until
// it holds or the budget is spent.
package poll

import "github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"

// Sleeper delays the calling goroutine between samples.
type Sleeper interface {
	Sleep(w osal.Wait)
}

// Until samples pred every interval until it returns true or the budget is
// spent, and reports whether the predicate held. The predicate is always
// sampled at least once, so a NoWait budget is a single probe.
func Until(c osal.Clock, s Sleeper, pred func() bool, budget, interval osal.Wait) bool {
	start := c.ElapsedMsec()
	for {
		if pred() {
			return true
		}
		if !budget.Forever() && c.ElapsedMsec()-start >= budget.Msec() {
			return false
		}
		s.Sleep(interval)
	}
}
