// Package status provides Tracker, a fixed-capacity table mapping enum
// values to a four-state flag each, with an edge-triggered change
// notification shared by the whole table.
//
// Every entry is in one of four states: Unknown (initial), Ignored, Set or
// Cleared. Mutations go through one path: an entry that already holds the
// target flag is a successful no-op and does not re-raise the activity
// notification, so consumers waiting on AwaitActivity wake only on real
// transitions. SetAllUnknown is the one exception: a bulk reset always
// counts as one activity.
//
// The table is indexed by casting the enum value to an integer, so enum
// types with skipped values reserve unused slots; values outside
// [0, capacity) are rejected. A WithNamer option supplies display names
// for logging and snapshots.
//
// Access can be restricted with capability permits exactly like package
// mailbox: ClaimWriter gates the mutation surface, ClaimReader the read
// surface, Revoke reopens them. The activity notification itself is not
// claim-gated; any caller may wait on it.
//
// ErrorSet wraps a Tracker in error-code vocabulary (SetError, IsErrorSet)
// for the common case of tracking fault flags.
//
// # Usage
//
//	tr := status.New[ErrorCode]("pump-errors", 8, provider,
//		status.WithNamer[ErrorCode](errorCodeName))
//	tr.Set(OverTemp)
//
//	if tr.AwaitActivity(osal.WaitMsec(100)) {
//		tr.LogAll("activity observed")
//	}
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
//
// See version.go for version constants that can be used programmatically.
package status
