package osal

// Status reports the outcome of a primitive operation. Providers translate
// their native return codes into this set; callers usually reduce a Status
// to a boolean and log the reason.
type Status uint8

const (
	// OK indicates the operation completed.
	OK Status = iota

	// ErrTimeout indicates a bounded wait expired before the condition held.
	ErrTimeout

	// ErrNoMemory indicates the provider could not allocate the primitive.
	ErrNoMemory

	// ErrInvalidHandle indicates the call targeted a primitive that was
	// never created.
	ErrInvalidHandle

	// ErrNotOwned indicates a release attempt by a caller that does not
	// hold the primitive.
	ErrNotOwned

	// ErrDeleted indicates the primitive was deleted, either before the
	// call or while the caller was waiting on it.
	ErrDeleted

	// ErrInternal indicates a provider failure with no more specific code.
	ErrInternal
)

// OK reports whether the status is a success.
func (s Status) OK() bool {
	return s == OK
}

// String returns a short lowercase name for the status.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case ErrTimeout:
		return "timeout"
	case ErrNoMemory:
		return "no-memory"
	case ErrInvalidHandle:
		return "invalid-handle"
	case ErrNotOwned:
		return "not-owned"
	case ErrDeleted:
		return "deleted"
	case ErrInternal:
		return "internal"
	default:
		return "unknown"
	}
}
