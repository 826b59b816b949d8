package guard

import (
	"fmt"
	"sync/atomic"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
)

// NamedMutex pairs a display name with a lazily created provider mutex.
// The underlying OS mutex is created on first Acquire or Ensure, created at
// most once, and torn down at most once by Delete.
type NamedMutex struct {
	name     string
	provider osal.Provider
	lg       log.Logger

	gate    InitGate
	mu      osal.Mutex
	deleted atomic.Bool
}

// NewNamedMutex returns a wrapper with the given display name. No OS
// resource is allocated until first use.
func NewNamedMutex(name string, p osal.Provider, opts ...Option) *NamedMutex {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &NamedMutex{
		name:     osal.TruncateName(name),
		provider: p,
		lg:       o.lg,
	}
}

// DerivedName joins a base name and extension the way per-instance mutex
// names are built ("<base>-<ext>"), clamped to the provider name limit.
func DerivedName(base, ext string) string {
	if ext == "" {
		return osal.TruncateName(base)
	}
	return osal.TruncateName(base + "-" + ext)
}

// Ensure creates the underlying mutex if it does not exist yet. Safe for
// concurrent first use; a creation failure is retried on the next call.
func (n *NamedMutex) Ensure() bool {
	err := n.gate.Do(func() error {
		m, st := n.provider.NewMutex(n.name)
		if !st.OK() {
			return fmt.Errorf("create mutex %q: %s", n.name, st)
		}
		n.mu = m
		return nil
	})
	if err != nil {
		n.lg.Error("named mutex creation failed", log.Err(err))
		return false
	}
	return true
}

// Acquire locks the mutex within budget w, creating it on first use.
func (n *NamedMutex) Acquire(w osal.Wait) bool {
	if !n.Ensure() {
		return false
	}
	if st := n.mu.Acquire(w); !st.OK() {
		n.lg.Warn("mutex acquisition failed",
			log.String("mutex", n.name),
			log.String("status", st.String()),
			log.String("wait", w.String()))
		return false
	}
	return true
}

// Release unlocks the mutex.
func (n *NamedMutex) Release() bool {
	if !n.gate.Done() {
		n.lg.Warn("mutex released before creation", log.String("mutex", n.name))
		return false
	}
	if st := n.mu.Release(); !st.OK() {
		n.lg.Warn("mutex release failed",
			log.String("mutex", n.name),
			log.String("status", st.String()))
		return false
	}
	return true
}

// Name returns the display name.
func (n *NamedMutex) Name() string {
	return n.name
}

// Created reports whether the underlying mutex exists.
func (n *NamedMutex) Created() bool {
	return n.gate.Done()
}

// Delete tears down the underlying mutex. Only the first call after a
// successful creation does anything.
func (n *NamedMutex) Delete() bool {
	if !n.gate.Done() {
		return false
	}
	if n.deleted.Swap(true) {
		return false
	}
	if st := n.mu.Delete(); !st.OK() {
		n.lg.Warn("mutex delete failed",
			log.String("mutex", n.name),
			log.String("status", st.String()))
		return false
	}
	return true
}
