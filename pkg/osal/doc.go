// Package osal abstracts the operating-system primitives the hfrtos
// components are built on: mutexes, counting semaphores, event groups,
// threads and timers, all created through a Provider and all reporting
// outcomes as Status codes instead of panics.
//
// Every blocking call takes a Wait budget. NoWait polls, WaitMsec bounds
// the wait, WaitForever blocks until the condition holds or the primitive
// is deleted. A Clock supplies monotonic elapsed time and tick conversion
// so callers never touch time.Now directly.
//
// # Usage
//
// Production and test code normally use the Go-runtime provider:
//
//	p := goos.New()
//	mu, st := p.NewMutex("table")
//	if !st.OK() {
//		// creation failed, st says why
//	}
//	if mu.Acquire(osal.WaitMsec(250)).OK() {
//		defer mu.Release()
//	}
//
// Ports to a real RTOS implement Provider and Clock and leave the rest of
// the module untouched.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package osal
