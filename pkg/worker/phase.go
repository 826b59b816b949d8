package worker

import (
	"sync"

	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
)

// Phase is the position of a worker's cycle.
type Phase int

const (
	// PhaseIdle is a worker parked on its start signal.
	PhaseIdle Phase = iota

	// PhaseSettingUp is a worker running Setup.
	PhaseSettingUp

	// PhaseRunning is a worker in its step loop.
	PhaseRunning

	// PhaseCleaningUp is a worker running Cleanup after a stop request.
	PhaseCleaningUp
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseSettingUp:
		return "SettingUp"
	case PhaseRunning:
		return "Running"
	case PhaseCleaningUp:
		return "CleaningUp"
	default:
		return "Unknown"
	}
}

// PhaseChange is called after each phase transition.
type PhaseChange func(previous, current Phase)

// phaseMachine validates and records the cycle's transitions so an
// illegal order (stepping before setup, cleanup before stepping) cannot
// be represented.
type phaseMachine struct {
	mu       sync.RWMutex
	phase    Phase
	name     string
	lg       log.Logger
	onChange PhaseChange
}

func (m *phaseMachine) current() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// transitionTo moves the machine one step around the cycle. Only the
// cycle's own edges are legal:
// Idle -> SettingUp -> Running -> CleaningUp -> Idle.
func (m *phaseMachine) transitionTo(next Phase) bool {
	m.mu.Lock()
	prev := m.phase

	legal := false
	switch prev {
	case PhaseIdle:
		legal = next == PhaseSettingUp
	case PhaseSettingUp:
		legal = next == PhaseRunning
	case PhaseRunning:
		legal = next == PhaseCleaningUp
	case PhaseCleaningUp:
		legal = next == PhaseIdle
	}
	if !legal {
		m.mu.Unlock()
		m.lg.Warn("illegal phase transition",
			log.String("worker", m.name),
			log.String("from", prev.String()),
			log.String("to", next.String()))
		return false
	}
	m.phase = next
	m.mu.Unlock()

	// Observer runs outside the lock.
	if m.onChange != nil {
		m.onChange(prev, next)
	}
	m.lg.Debug("phase transition",
		log.String("worker", m.name),
		log.String("from", prev.String()),
		log.String("to", next.String()))
	return true
}
