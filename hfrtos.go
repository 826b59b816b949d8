// Package hfrtos provides RTOS-style concurrency primitives on top of a
// pluggable operating system provider.
//
// Example usage:
//
//	p := hfrtos.NewProvider()
//	w := hfrtos.NewWorker("sensor", runner, p, p)
//	m := hfrtos.NewManager("fleet", p, p)
//	if err := m.Register(0, w, hfrtos.CreateOptions{StackBytes: 8192, Priority: 10}); err != nil {
//	    log.Fatal(err)
//	}
//	if !m.Initialize() {
//	    log.Fatal("fleet initialization incomplete")
//	}
//	m.StartAllAndVerify(hfrtos.WaitMsec(2000))
package hfrtos

import (
	"time"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/fleet"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/guard"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/mailbox"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal/goos"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/status"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/worker"
)

// Provider supplies the operating system primitives everything else runs
// on. Use NewProvider for the goroutine-backed implementation.
type Provider = osal.Provider

// Clock reports elapsed milliseconds and tick conversions.
type Clock = osal.Clock

// Mutex is an ownership-tracking lock created by a Provider.
type Mutex = osal.Mutex

// Wait bounds how long a blocking operation may park.
// Use NoWait, WaitForever or WaitMsec to construct one.
type Wait = osal.Wait

// Status is the result code returned by provider primitives.
type Status = osal.Status

// Worker drives a Runner through its setup, step and cleanup phases
// between start and stop signals.
type Worker = worker.Worker

// Runner is the consumer-implemented body of a worker cycle.
type Runner = worker.Runner

// CreateOptions sizes the thread backing a Worker.
type CreateOptions = worker.CreateOptions

// Phase is the position of a worker's cycle.
type Phase = worker.Phase

// Manager coordinates a registered fleet of workers.
// Use Config and DefaultConfig to derive CreateOptions for its workers.
type Manager = fleet.Manager

// Registry is a census of live worker threads.
type Registry = fleet.Registry

// Config holds the tunable settings for a fleet.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = fleet.Config

// Watcher republishes a fleet Config when its TOML file changes on disk.
type Watcher = fleet.Watcher

// Guard holds a mutex for a lexical scope and releases it exactly once.
type Guard = guard.Guard

// NamedMutex creates its underlying mutex lazily on first use.
type NamedMutex = guard.NamedMutex

// InitGate runs an initializer until it first succeeds, then never again.
type InitGate = guard.InitGate

// Logger is the logging interface the library emits through.
type Logger = log.Logger

// LogField is one structured key/value pair attached to a log line.
type LogField = log.Field

// NoWait polls without blocking.
const NoWait = osal.NoWait

// WaitForever blocks until the operation completes.
const WaitForever = osal.WaitForever

// WaitMsec returns a Wait bounded to msec milliseconds.
func WaitMsec(msec int64) Wait {
	return osal.WaitMsec(msec)
}

// WaitDuration returns a Wait bounded to d, rounded down to milliseconds.
func WaitDuration(d time.Duration) Wait {
	return osal.WaitDuration(d)
}

// NewProvider returns a Provider and Clock backed by goroutines and
// channels. Options tune the tick rate or inject allocation failures.
func NewProvider(opts ...goos.Option) *goos.Provider {
	return goos.New(opts...)
}

// NewWorker returns a Worker that drives r. The worker owns no thread
// until Create is called.
func NewWorker(name string, r Runner, p Provider, c Clock, opts ...worker.Option) *Worker {
	return worker.New(name, r, p, c, opts...)
}

// NewManager returns an empty Manager. Register workers, then call
// Initialize before signaling the fleet.
func NewManager(name string, p Provider, c Clock, opts ...fleet.Option) *Manager {
	return fleet.NewManager(name, p, c, opts...)
}

// NewRegistry returns an empty worker census.
func NewRegistry() *Registry {
	return fleet.NewRegistry()
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return fleet.DefaultConfig()
}

// NewWatcher returns a Watcher that publishes reloaded Configs to out.
// Start it with a context; Stop it before deleting the mailbox.
func NewWatcher(path string, base Config, out *mailbox.Box[Config], opts ...fleet.Option) *Watcher {
	return fleet.NewWatcher(path, base, out, opts...)
}

// NewBox returns a single-slot mailbox holding the latest value of type T.
func NewBox[T any](name string, p Provider, c Clock, opts ...mailbox.Option) *mailbox.Box[T] {
	return mailbox.New[T](name, p, c, opts...)
}

// NewTracker returns a status table with capacity slots, one per
// enumerant of E, all Unknown.
func NewTracker[E status.Enum](name string, capacity int, p Provider, opts ...status.Option[E]) *status.Tracker[E] {
	return status.New[E](name, capacity, p, opts...)
}

// NewErrorSet returns a Tracker dressed in error-flavored method names.
func NewErrorSet[E status.Enum](name string, capacity int, p Provider, opts ...status.Option[E]) *status.ErrorSet[E] {
	return status.NewErrorSet[E](name, capacity, p, opts...)
}

// NewNamedMutex returns a NamedMutex whose mutex is created on first use.
func NewNamedMutex(name string, p Provider, opts ...guard.Option) *NamedMutex {
	return guard.NewNamedMutex(name, p, opts...)
}

// Acquire locks m and returns a Guard scoped to the caller.
// Check Acquired before touching guarded state.
func Acquire(m Mutex, opts ...guard.Option) *Guard {
	return guard.Acquire(m, opts...)
}

// AcquireNamed ensures nm exists, locks it and returns a Guard.
func AcquireNamed(nm *NamedMutex, opts ...guard.Option) *Guard {
	return guard.AcquireNamed(nm, opts...)
}

// NewLogger returns a zerolog-backed Logger filtering below level.
// Unknown levels fall back to info.
func NewLogger(level string) Logger {
	return log.NewZerologAdapterAtLevel(level)
}
