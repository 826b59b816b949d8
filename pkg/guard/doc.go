// Package guard provides scoped locking and one-time initialization for
// the hfrtos primitives.
//
// A Guard holds one of two lock sources for a lexical scope: a raw
// osal.Mutex handle or a NamedMutex wrapper. The two sources are kept as an
// explicit sum with a single dispatch point in Release; that asymmetry is
// deliberate, not an accident to flatten away. Construction never panics:
// callers check Acquired and Release is unconditional and idempotent, so it
// is always safe to defer.
//
// InitGate closes the lazy-initialization race every stateful primitive
// shares: the first user creates the underlying OS resources, concurrent
// first users wait for that outcome, and a failed creation re-opens the
// gate so the next call retries.
//
// # Usage
//
//	g := guard.Acquire(mu, guard.WithWait(osal.WaitMsec(50)))
//	if !g.Acquired() {
//		return false
//	}
//	defer g.Release()
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package guard
