package worker

// Runner is the consumer-implemented body of a worker cycle.
type Runner interface {
	// Setup runs once per cycle before the first Step. A false return is
	// logged but does not abort the cycle; the phase still completes.
	Setup() bool

	// Step runs one iteration and returns how many milliseconds the
	// worker sleeps before the next one. Zero means step again at once.
	// Step must return promptly for Stop to take effect quickly.
	Step() (delayMsec int64)

	// Cleanup runs once per cycle after a stop is requested.
	Cleanup() bool
}

// StartActioner is an optional Runner extension: a hook invoked by Start
// before the start signal is sent. Returning false vetoes the start.
type StartActioner interface {
	StartAction() bool
}

// VariableResetter is an optional Runner extension invoked at the top of
// every cycle, before the worker is marked running.
type VariableResetter interface {
	ResetVariables()
}

// Accountant observes worker thread creation and deletion. It replaces
// any process-global thread counter with explicit registration owned by
// whichever component aggregates fleet statistics.
type Accountant interface {
	WorkerCreated(name string)
	WorkerDeleted(name string)
}
