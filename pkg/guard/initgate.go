package guard

import (
	"sync"
	"sync/atomic"
)

// InitGate runs a lazy initializer at most once. Unlike sync.Once, a failed
// run re-opens the gate: the next caller retries instead of inheriting the
// failure forever.
//
// The gate itself is built on native synchronization because it is the
// bootstrap point for every provider-backed primitive; it cannot depend on
// a mutex that does not exist yet.
type InitGate struct {
	mu   sync.Mutex
	done atomic.Bool
}

// Do runs fn unless a previous run already succeeded. Concurrent callers
// serialize: once a run succeeds, later calls return nil without running
// fn; after a failed run, the next caller retries.
func (g *InitGate) Do(fn func() error) error {
	if g.done.Load() {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done.Load() {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	g.done.Store(true)
	return nil
}

// Done reports whether a run has succeeded.
func (g *InitGate) Done() bool {
	return g.done.Load()
}
