package main

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	hfrtos "github.com/N3b3x/hf-utils-rtos-wrap"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/fleet"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/log"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/mailbox"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/osal/goos"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/status"
	"github.com/N3b3x/hf-utils-rtos-wrap/pkg/worker"
)

const (
	// sinkFetchBudgetMsec bounds how long the sink parks per step so
	// stop requests are honored promptly.
	sinkFetchBudgetMsec = 50

	// reloadPollMsec bounds how long applyReloads parks between checks
	// of the config mailbox and the context.
	reloadPollMsec = 250
)

// probeID keys the health table; one entry per sensor worker.
type probeID int

// reading is one synthetic sample published by a sensor.
type reading struct {
	Probe int
	Seq   uint64
	Value float64
	Fault bool
}

// sensorRunner publishes synthetic readings for one probe. The step
// delay is shared with the simulation so config reloads apply live.
type sensorRunner struct {
	id        probeID
	out       *mailbox.Box[reading]
	delayMsec *atomic.Int64
	seq       atomic.Uint64
	produced  atomic.Uint64
}

func (r *sensorRunner) Setup() bool {
	r.seq.Store(0)
	return true
}

func (r *sensorRunner) Step() int64 {
	seq := r.seq.Add(1)
	r.out.Set(reading{
		Probe: int(r.id),
		Seq:   seq,
		Value: 50 + 50*math.Sin(float64(seq)/8+float64(r.id)),
		Fault: seq%37 == 0,
	})
	r.produced.Add(1)
	return r.delayMsec.Load()
}

func (r *sensorRunner) Cleanup() bool { return true }

// sinkRunner drains the mailbox and folds each reading into the health
// table.
type sinkRunner struct {
	in       *mailbox.Box[reading]
	health   *status.Tracker[probeID]
	lg       log.Logger
	consumed atomic.Uint64
	faults   atomic.Uint64
}

func (r *sinkRunner) Setup() bool {
	return r.health.SetAllUnknown()
}

func (r *sinkRunner) Step() int64 {
	v, ok := r.in.Fetch(osal.WaitMsec(sinkFetchBudgetMsec))
	if !ok {
		return 0
	}
	r.consumed.Add(1)
	if v.Fault {
		r.faults.Add(1)
		r.health.Set(probeID(v.Probe))
		r.lg.Debug("probe fault observed",
			log.Int("probe", v.Probe), log.Uint64("seq", v.Seq))
		return 0
	}
	r.health.Clear(probeID(v.Probe))
	return 0
}

func (r *sinkRunner) Cleanup() bool {
	return r.in.ClearPending()
}

// simulation owns the fleet and the primitives the workers share.
type simulation struct {
	cfg     fleet.Config
	manager *fleet.Manager
	samples *mailbox.Box[reading]
	health  *status.Tracker[probeID]
	sensors []*sensorRunner
	sink    *sinkRunner
	lg      log.Logger

	stepDelayMsec atomic.Int64
}

// newSimulation builds cfg.Workers sensor workers plus one sink and
// registers them with a manager. No OS resource is allocated until
// Manager.Initialize runs.
func newSimulation(cfg fleet.Config, p *goos.Provider, lg log.Logger, reg *fleet.Registry) (*simulation, error) {
	s := &simulation{cfg: cfg, lg: lg}
	s.stepDelayMsec.Store(cfg.StepDelay.Milliseconds())

	s.samples = hfrtos.NewBox[reading]("sensor-samples", p, p, mailbox.WithLogger(lg))
	s.health = hfrtos.NewTracker[probeID]("probe-health", cfg.Workers, p,
		status.WithLogger[probeID](lg),
		status.WithNamer[probeID](func(id probeID) string { return fmt.Sprintf("probe-%d", id) }))

	s.manager = hfrtos.NewManager(cfg.FleetName, p, p, fleet.WithLogger(lg))

	opts := cfg.WorkerOptions()
	for i := 0; i < cfg.Workers; i++ {
		r := &sensorRunner{id: probeID(i), out: s.samples, delayMsec: &s.stepDelayMsec}
		w := hfrtos.NewWorker(fmt.Sprintf("sensor-%d", i), r, p, p,
			worker.WithLogger(lg), worker.WithAccountant(reg))
		if err := s.manager.Register(i, w, opts); err != nil {
			return nil, err
		}
		s.sensors = append(s.sensors, r)
	}

	s.sink = &sinkRunner{in: s.samples, health: s.health, lg: log.WithTag(lg, "sink")}
	w := hfrtos.NewWorker("sink", s.sink, p, p,
		worker.WithLogger(lg), worker.WithAccountant(reg))
	if err := s.manager.Register(cfg.Workers, w, opts); err != nil {
		return nil, err
	}
	return s, nil
}

// produced sums the per-sensor sample counters.
func (s *simulation) produced() uint64 {
	var n uint64
	for _, r := range s.sensors {
		n += r.produced.Load()
	}
	return n
}

// applyReloads folds configuration updates into the running fleet. Only
// the step delay applies live; sizing changes need a restart.
func (s *simulation) applyReloads(ctx context.Context, box *mailbox.Box[fleet.Config]) {
	for ctx.Err() == nil {
		next, ok := box.Fetch(osal.WaitMsec(reloadPollMsec))
		if !ok {
			continue
		}
		prev := time.Duration(s.stepDelayMsec.Load()) * time.Millisecond
		if next.StepDelay != prev {
			s.stepDelayMsec.Store(next.StepDelay.Milliseconds())
			s.lg.Info("step delay updated",
				log.Duration("previous", prev), log.Duration("current", next.StepDelay))
		}
		if next.Workers != s.cfg.Workers {
			s.lg.Warn("worker count change needs a restart",
				log.Int("running", s.cfg.Workers), log.Int("configured", next.Workers))
		}
	}
}

// shutdown deletes every worker and shared primitive. Safe after a
// failed start; Delete tears down running workers too.
func (s *simulation) shutdown() {
	for _, id := range s.manager.IDs() {
		if w, ok := s.manager.Get(id); ok {
			w.Delete()
		}
	}
	s.samples.Delete()
	s.health.Delete()
}
