// Package app is the composition root of the overlay.
//
// # Overview
//
// Run loads configuration, preferences and the reference tables, opens the
// completion history, and starts three background loops before handing the
// terminal to the UI:
//
//   - the tail loop, which polls EE.log and feeds new lines through the
//     bounty tracker (poller.go)
//   - the clock, which advances the live timers once per second
//   - the optional status API (internal/api) when status_bind is set
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read config.toml
//	       ├─────> LoadTables()        Wanted set and stage names
//	       ├─────> history.Open()      SQLite completion history
//	       ├─────> startTailer()       Poll + fsnotify wakeups
//	       ├─────> StartClock()        1s live timer ticks
//	       └─────> ui.Run()            Start TUI (blocks)
//
// The tracker is owned by the tail goroutine. Everything else reads copies
// through state.Store.
//
// # Error Handling
//
// Only configuration and reference data errors are fatal. An unreadable log
// is recorded in the store, logged, and retried with exponential backoff
// capped at 30 seconds. Malformed lines are logged with the raw text and
// skipped. History write failures are logged and do not stop tracking.
//
// Replay runs a saved log through a fresh tracker without touching the store,
// which backs the replay subcommand.
package app
