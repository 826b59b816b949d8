// Package fleet coordinates a collection of workers as one unit.
//
// A Manager aggregates workers keyed by an integer ID, usually an
// application enum. Registration stores the worker together with its
// creation options; Initialize then creates every registered worker in one
// pass, bracketed by optional pre/post hooks, and is gated so a failed pass
// can be retried while a successful one never runs twice. Group signals
// (StartAll, StopSelected, StartAllExcept and friends) fan the per-worker
// calls out and AND the results; each has an AndVerify variant that polls
// the aggregate running/stopped predicate within one shared budget instead
// of verifying workers one by one.
//
// A Registry gives the fleet explicit live-worker accounting: it implements
// worker.Accountant, so wiring it into each worker via worker.WithAccountant
// keeps Count and Names current as workers are created and deleted.
//
// The package also owns fleet configuration: a TOML file with HFRTOS_*
// environment overrides, and a Watcher that reloads the file on change
// (debounced) and publishes each valid Config through a mailbox.Box so
// consumers pick up changes with the same primitives the workers use.
//
// # Usage
//
//	reg := fleet.NewRegistry()
//	mgr := fleet.NewManager("pumps", provider, clock)
//
//	w := worker.New("pump-a", runner, provider, clock, worker.WithAccountant(reg))
//	mgr.Register(pumpA, w, worker.CreateOptions{StackBytes: 4096, Priority: 10})
//
//	if !mgr.Initialize() {
//		return
//	}
//	mgr.StartAllAndVerify(osal.WaitMsec(2000))
//	defer mgr.StopAllAndVerify(osal.WaitMsec(2000))
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package fleet
