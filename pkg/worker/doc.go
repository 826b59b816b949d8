// Package worker drives a consumer-supplied Runner through an indefinite
// setup/step/cleanup cycle on a provider thread, gated by start and stop
// signals.
//
// A Worker is constructed with a name and a Runner; the OS thread and the
// start semaphore are allocated by an explicit Create call. The cycle then
// runs forever: park until Start signals, run Setup once, call Step in a
// loop sleeping the returned delay between iterations, and once Stop is
// requested run Cleanup and park again. Setup and Cleanup run at most once
// per cycle; their completion flags reset so the next cycle repeats them.
//
// The cycle's position is tracked by an explicit phase machine
// (Idle, SettingUp, Running, CleaningUp) with validated transitions, so an
// illegal order such as stepping before setup cannot be represented. A
// PhaseChange observer can watch the transitions.
//
// Stop is cooperative: it sets a flag and nudges the thread out of its
// step delay, but cannot preempt an in-flight Step. StartAndVerify and
// StopAndVerify block until the requested state is actually observed,
// polling at a fixed interval within a caller budget.
//
// Runners may optionally implement StartActioner, a pre-signal hook whose
// veto aborts Start, and VariableResetter, invoked at the top of every
// cycle. An Accountant option reports thread creation and deletion to an
// external registry.
//
// # Usage
//
//	w := worker.New("pump-control", runner, provider, clock)
//	if !w.Create(worker.CreateOptions{StackBytes: 4096, Priority: 10}) {
//		return
//	}
//	if w.StartAndVerify(osal.WaitMsec(500)) {
//		defer w.StopAndVerify(osal.WaitMsec(500))
//	}
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package worker
