// Package goos implements osal.Provider and osal.Clock on the Go runtime,
// so the hfrtos primitives run and test anywhere Go does.
//
// Mapping notes:
//   - mutexes are capacity-1 token channels; ownership is not tracked, so
//     ErrNotOwned means "not held at all", not "held by someone else".
//   - semaphores are buffered token channels; Give at the ceiling saturates.
//   - event groups are a bit word plus a broadcast channel that is closed
//     and replaced on every Set, so waiters re-evaluate their condition.
//   - threads are goroutines. Suspension is cooperative and takes effect at
//     sleep points; Terminate marks the thread and unblocks its waits but
//     cannot preempt a running body.
//   - timers run their callback on a private goroutine.
//
// # Usage
//
//	p := goos.New(goos.WithLogger(logger))
//	w := worker.New("pump", runner, p, p)
//
// The provider is also the clock: New returns a value implementing both
// osal.Provider and osal.Clock.
//
// # Testing creation failures
//
// WithAllocationLimit(n) makes every creation after the first n fail with
// ErrNoMemory, which is how the out-of-memory paths are exercised without
// a constrained target.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package goos
