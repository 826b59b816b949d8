// Package mailbox provides Box, a single-slot timestamped mailbox for
// cross-worker data exchange.
//
// A Box is a mailbox, not a queue: every Set overwrites the slot and stamps
// it with the clock's monotonic milliseconds, while one data-available
// notification persists until a Fetch consumes it. Rapid Sets before a
// Fetch therefore deliver only the last value; the monotonic Seq counter
// exists so consumers that care can detect the skipped updates.
//
// Reads come in two flavors. Fetch is the consuming, event-driven read: it
// blocks up to a wait budget for the notification and clears it, so a
// second Fetch without an intervening Set blocks again. Recent and its
// variants are lock-protected snapshots that neither wait nor consume;
// RecentIfNewer compares against a caller-held timestamp with a strict
// "newer than" boundary, which makes cheap change polling possible without
// stealing the event from the consuming reader.
//
// Access can be restricted with capability permits: ClaimWriter/ClaimReader
// mint a transferable permit and close the open Set/read surface for that
// side. Revoke reopens it; a revoked permit fails every call. Permits
// replace any notion of thread identity, so ownership survives goroutine
// migration.
//
// The box's mutex and event group are created lazily on first use and a
// creation failure is retried on the next call. Operations never panic;
// they return false on uninitialized or torn-down state.
//
// # Usage
//
//	box := mailbox.New[Reading]("pump-reading", provider, clock)
//	box.Set(Reading{Celsius: 21.5})
//
//	if v, ok := box.Fetch(osal.WaitMsec(250)); ok {
//		consume(v)
//	}
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package mailbox
