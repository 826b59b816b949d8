package status

import "github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"

// ErrorSet dresses a Tracker in error-code vocabulary for the common case
// of tracking fault flags: an error is Set while the fault is present,
// Cleared once it is determined absent, Ignored when the consumer opts
// out of it.
type ErrorSet[E Enum] struct {
	tr *Tracker[E]
}

// NewErrorSet returns an error set with capacity slots, all Unknown.
func NewErrorSet[E Enum](name string, capacity int, p osal.Provider, opts ...Option[E]) *ErrorSet[E] {
	return &ErrorSet[E]{tr: New[E](name, capacity, p, opts...)}
}

// SetError marks e as present.
func (s *ErrorSet[E]) SetError(e E) bool {
	return s.tr.Set(e)
}

// ClearError marks e as absent.
func (s *ErrorSet[E]) ClearError(e E) bool {
	return s.tr.Clear(e)
}

// IgnoreError marks e as disregarded.
func (s *ErrorSet[E]) IgnoreError(e E) bool {
	return s.tr.Ignore(e)
}

// SetAllUnknown resets every error to its initial state.
func (s *ErrorSet[E]) SetAllUnknown() bool {
	return s.tr.SetAllUnknown()
}

// IsErrorSet reports whether e is present.
func (s *ErrorSet[E]) IsErrorSet(e E) bool {
	return s.tr.IsSet(e)
}

// IsAnyErrorSet reports whether any error is present.
func (s *ErrorSet[E]) IsAnyErrorSet() bool {
	return s.tr.AnySet()
}

// IsErrorIgnored reports whether e is disregarded.
func (s *ErrorSet[E]) IsErrorIgnored(e E) bool {
	return s.tr.IsIgnored(e)
}

// AwaitActivity blocks up to w for the next error transition.
func (s *ErrorSet[E]) AwaitActivity(w osal.Wait) bool {
	return s.tr.AwaitActivity(w)
}

// LogAll dumps the whole error table through the logger.
func (s *ErrorSet[E]) LogAll(reason string) {
	s.tr.LogAll(reason)
}

// Tracker exposes the underlying table for claims and snapshots.
func (s *ErrorSet[E]) Tracker() *Tracker[E] {
	return s.tr
}

// Delete tears down the underlying table.
func (s *ErrorSet[E]) Delete() bool {
	return s.tr.Delete()
}
