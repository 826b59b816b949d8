package osal

// MaxNameLen is the longest primitive name a provider must accept.
const MaxNameLen = 39

// TruncateName clamps a primitive name to MaxNameLen bytes. Long names are
// truncated rather than rejected so derived names ("<base>-<ext>") never
// fail creation.
func TruncateName(name string) string {
	if len(name) <= MaxNameLen {
		return name
	}
	return name[:MaxNameLen]
}

// WaitOption selects how an event-group wait matches and consumes bits.
type WaitOption uint8

const (
	// WaitAny is satisfied by any requested bit and leaves the group as is.
	WaitAny WaitOption = iota

	// WaitAnyConsume is satisfied by any requested bit and clears the
	// matched bits before returning.
	WaitAnyConsume

	// WaitAll is satisfied only when every requested bit is set.
	WaitAll

	// WaitAllConsume is satisfied only when every requested bit is set and
	// clears the requested bits before returning.
	WaitAllConsume
)

// RequiresAll reports whether every requested bit must be set.
func (o WaitOption) RequiresAll() bool {
	return o == WaitAll || o == WaitAllConsume
}

// Consumes reports whether a satisfied wait clears the matched bits.
func (o WaitOption) Consumes() bool {
	return o == WaitAnyConsume || o == WaitAllConsume
}

// String returns a short lowercase name for the option.
func (o WaitOption) String() string {
	switch o {
	case WaitAny:
		return "any"
	case WaitAnyConsume:
		return "any-consume"
	case WaitAll:
		return "all"
	case WaitAllConsume:
		return "all-consume"
	default:
		return "unknown"
	}
}

// ThreadState describes where a provider thread is in its life.
type ThreadState uint8

const (
	// ThreadReady means the thread exists but has not been released yet.
	ThreadReady ThreadState = iota

	// ThreadRunning means the thread body is executing.
	ThreadRunning

	// ThreadSuspended means the thread is parked by Suspend.
	ThreadSuspended

	// ThreadSleeping means the thread is inside a Sleep.
	ThreadSleeping

	// ThreadTerminated means Terminate was observed.
	ThreadTerminated

	// ThreadCompleted means the thread body returned on its own.
	ThreadCompleted

	// ThreadUnknown is reported for handles the provider cannot inspect.
	ThreadUnknown
)

// String returns a short lowercase name for the state.
func (s ThreadState) String() string {
	switch s {
	case ThreadReady:
		return "ready"
	case ThreadRunning:
		return "running"
	case ThreadSuspended:
		return "suspended"
	case ThreadSleeping:
		return "sleeping"
	case ThreadTerminated:
		return "terminated"
	case ThreadCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Mutex is a named, non-recursive lock.
type Mutex interface {
	// Acquire blocks up to w for ownership.
	Acquire(w Wait) Status

	// Release gives up ownership. Releasing a mutex nobody holds returns
	// ErrNotOwned.
	Release() Status

	Name() string
	Delete() Status
}

// Semaphore is a counting semaphore with a creation-time ceiling.
type Semaphore interface {
	// Take consumes one count, blocking up to w for it.
	Take(w Wait) Status

	// Give returns one count. Giving at the ceiling saturates and still
	// reports OK, so repeated signals merge instead of accumulating.
	Give() Status

	Count() uint32
	Name() string
	Delete() Status
}

// EventGroup is a word of notification bits with AND/OR bounded waits.
type EventGroup interface {
	Set(bits uint32) Status
	Clear(bits uint32) Status

	// Wait blocks up to w for the requested bits per opt and returns the
	// bits that satisfied the wait.
	Wait(bits uint32, opt WaitOption, w Wait) (uint32, Status)

	Peek() uint32
	Name() string
	Delete() Status
}

// Thread is a provider-scheduled unit of execution running a fixed entry
// function.
type Thread interface {
	// Start releases a thread created without auto-start.
	Start() Status

	// Suspend parks the thread at its next sleep point.
	Suspend() Status

	// Resume lifts a suspension. Resuming a thread that is not suspended
	// is a harmless no-op.
	Resume() Status

	// Wake aborts an in-progress Sleep. Wakes are sticky: one issued while
	// the thread is not sleeping aborts its next Sleep instead.
	Wake() Status

	// Sleep delays the calling thread up to w. It must be called from the
	// thread body; it parks while the thread is suspended and returns
	// early when woken or terminated.
	Sleep(w Wait) Status

	// Terminate is cooperative: it marks the thread terminated and
	// unblocks its waits, but cannot preempt a running body.
	Terminate() Status

	Delete() Status
	State() ThreadState
	Name() string
}

// Timer runs a callback after an initial delay and then once per period.
type Timer interface {
	Activate() Status
	Deactivate() Status

	// Change replaces the delays. The timer must be deactivated first.
	Change(initial, period Wait) Status

	Name() string
	Delete() Status
}

// ThreadOptions carries creation parameters for Provider.NewThread.
// Providers with no use for a field (stack, priority) may ignore it.
type ThreadOptions struct {
	Name             string
	StackBytes       int
	Priority         int
	PreemptThreshold int
	TimeSliceMsec    int64
	AutoStart        bool
}

// Provider creates OS primitives. Implementations must be safe for
// concurrent use; creation reports ErrNoMemory when the underlying pool is
// exhausted.
type Provider interface {
	NewMutex(name string) (Mutex, Status)
	NewSemaphore(name string, initial, ceiling uint32) (Semaphore, Status)
	NewEventGroup(name string) (EventGroup, Status)
	NewThread(opts ThreadOptions, entry func()) (Thread, Status)
	NewTimer(name string, initial, period Wait, fn func()) (Timer, Status)

	// Sleep delays the caller with no wake path. Thread bodies should
	// prefer Thread.Sleep so stop requests can interrupt the delay.
	Sleep(w Wait)
}

// Clock reports elapsed time and converts between ticks and milliseconds.
type Clock interface {
	// ElapsedMsec returns monotonic milliseconds since the clock started.
	ElapsedMsec() int64

	TicksFromMsec(msec int64) uint64
	MsecFromTicks(ticks uint64) int64
	TickRateHz() int64
}
