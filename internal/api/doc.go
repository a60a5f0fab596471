// Package api serves the overlay state over a small read-only HTTP API and
// provides the matching client used by the status subcommand.
//
// Endpoints:
//
//	GET /api/status          current timers, bests and bounty
//	GET /api/history?limit=N recent completions, newest first
//	GET /healthz             liveness
//
// Durations are reported in whole milliseconds.
package api
