package hfrtos_test

import (
	"fmt"
	"sync/atomic"

	hfrtos "github.com/N3b3x/hf-utils-rtos-wrap"
)

// samplingRunner is a minimal Runner that counts its steps.
type samplingRunner struct {
	steps atomic.Int32
}

func (r *samplingRunner) Setup() bool { return true }

func (r *samplingRunner) Step() int64 {
	r.steps.Add(1)
	return 1
}

func (r *samplingRunner) Cleanup() bool { return true }

// ExampleNewWorker demonstrates driving a Runner through one full cycle.
func ExampleNewWorker() {
	p := hfrtos.NewProvider()

	r := &samplingRunner{}
	w := hfrtos.NewWorker("sampler", r, p, p)
	if !w.Create(hfrtos.CreateOptions{StackBytes: 8192, Priority: 10}) {
		fmt.Println("create failed")
		return
	}
	defer w.Delete()

	fmt.Printf("started: %v\n", w.StartAndVerify(hfrtos.WaitMsec(2000)))

	// Let the step loop turn over at least once before stopping.
	for r.steps.Load() == 0 {
		p.Sleep(hfrtos.WaitMsec(1))
	}

	fmt.Printf("stopped: %v\n", w.StopAndVerify(hfrtos.WaitMsec(2000)))
	fmt.Printf("stepped: %v\n", r.steps.Load() > 0)

	// Output:
	// started: true
	// stopped: true
	// stepped: true
}

// ExampleNewManager demonstrates coordinating several workers as a fleet.
func ExampleNewManager() {
	p := hfrtos.NewProvider()

	opts := hfrtos.CreateOptions{StackBytes: 8192, Priority: 10}
	m := hfrtos.NewManager("pumps", p, p)
	_ = m.Register(0, hfrtos.NewWorker("pump-a", &samplingRunner{}, p, p), opts)
	_ = m.Register(1, hfrtos.NewWorker("pump-b", &samplingRunner{}, p, p), opts)

	fmt.Printf("initialized: %v\n", m.Initialize())
	fmt.Printf("started: %v\n", m.StartAllAndVerify(hfrtos.WaitMsec(2000)))
	fmt.Printf("running: %d\n", m.RunningCount())
	fmt.Printf("stopped: %v\n", m.StopAllAndVerify(hfrtos.WaitMsec(2000)))

	// Output:
	// initialized: true
	// started: true
	// running: 2
	// stopped: true
}

// ExampleNewBox demonstrates the consuming and non-consuming reads of a
// single-slot mailbox.
func ExampleNewBox() {
	p := hfrtos.NewProvider()

	box := hfrtos.NewBox[int]("imu-sample", p, p)
	defer box.Delete()

	box.Set(42)

	v, ok := box.Fetch(hfrtos.NoWait)
	fmt.Printf("fetched: %d %v\n", v, ok)

	// The fetch consumed the pending event; the value stays readable.
	_, ok = box.Fetch(hfrtos.NoWait)
	fmt.Printf("second fetch: %v\n", ok)

	v, ok = box.Recent()
	fmt.Printf("recent: %d %v\n", v, ok)

	// Output:
	// fetched: 42 true
	// second fetch: false
	// recent: 42 true
}

// faultKind enumerates the conditions a probe can report.
type faultKind uint8

const (
	faultOverTemp faultKind = iota
	faultLowBattery
	faultKindCount
)

// ExampleNewTracker demonstrates a per-enum status table.
func ExampleNewTracker() {
	p := hfrtos.NewProvider()

	tr := hfrtos.NewTracker[faultKind]("probe-faults", int(faultKindCount), p)
	defer tr.Delete()

	fmt.Printf("any set: %v\n", tr.AnySet())

	tr.Set(faultOverTemp)
	tr.Clear(faultLowBattery)

	f, _ := tr.Get(faultOverTemp)
	fmt.Printf("over-temp: %s\n", f)
	f, _ = tr.Get(faultLowBattery)
	fmt.Printf("low-battery: %s\n", f)
	fmt.Printf("any set: %v\n", tr.AnySet())

	// Output:
	// any set: false
	// over-temp: Set
	// low-battery: Cleared
	// any set: true
}

// ExampleAcquireNamed demonstrates scoped locking over a lazily created
// mutex.
func ExampleAcquireNamed() {
	p := hfrtos.NewProvider()

	nm := hfrtos.NewNamedMutex("shared-table", p)
	defer nm.Delete()

	g := hfrtos.AcquireNamed(nm)
	if !g.Acquired() {
		fmt.Println("lock unavailable")
		return
	}
	defer g.Release()

	fmt.Printf("holding: %s\n", nm.Name())

	// Output:
	// holding: shared-table
}

// Example_moduleVersions demonstrates version checking.
func Example_moduleVersions() {
	fmt.Printf("version: %s\n", hfrtos.Version)
	fmt.Printf("compatible: %v\n", hfrtos.ValidateModuleVersions() == nil)

	// Output:
	// version: 1.0.0
	// compatible: true
}
