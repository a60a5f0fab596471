// Package state holds the snapshot shared between the tail loop, the clock
// and the readers.
//
// # Writers
//
//   - The tail loop is the only writer of tracker state. It calls Publish
//     with a bounty.View copy after each batch of lines and ReportError or
//     ClearError after each poll.
//   - The clock calls Tick once per second. Tick only touches the live
//     counters, which Publish zeroes whenever the tracker starts a new
//     mission or stage (detected through the generation counters).
//
// # Readers
//
// The UI and the status API call Snapshot, which returns a deep copy.
// MissionTimer and StageTimer pick the live counter while a timer runs and
// the frozen log-derived duration otherwise.
//
// All access goes through a sync.RWMutex.
package state
