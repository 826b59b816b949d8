package fleet

import "errors"

// Errors returned by the fleet public API, checkable with errors.Is.
var (
	// ErrNilWorker is returned when Register is handed a nil worker.
	ErrNilWorker = errors.New("hfrtos: nil worker")

	// ErrDuplicateWorker is returned when Register reuses an ID.
	ErrDuplicateWorker = errors.New("hfrtos: duplicate worker id")

	// ErrLockUnavailable is returned when the manager cannot take its own lock.
	ErrLockUnavailable = errors.New("hfrtos: manager lock unavailable")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("hfrtos: invalid configuration")

	// ErrWatcherRunning is returned when Start is called on a running watcher.
	ErrWatcherRunning = errors.New("hfrtos: watcher already running")
)
