// Package tripstate provides the per-run, namespaced, single-writer store
// that stages use to hand results to one another.
//
// # Purpose
//
// Every stage owns exactly one namespace (its model.StageName). It writes its
// payload there once and reads the namespaces of the stages it depends on.
// The orchestrator is the only component that records stage statuses.
//
// # Characteristics
//
//   - **Ephemeral:** created for one run, discarded after the pack is assembled
//   - **Single-writer:** a second write to a namespace fails with a
//     *DuplicateWriteError and leaves the first payload untouched
//   - **Concurrent:** stages of the same wave write different namespaces at the
//     same time; sync.Map gives each key independent access
//   - **Read-only payloads:** readers receive the stored value and must treat it
//     as immutable
//
// # Status Transitions
//
// Each stage status follows:
//
//	pending → ok | degraded | failed
//
// A terminal status is itself written once.
package tripstate
