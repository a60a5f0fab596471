// Package bounty turns game log lines into bounty timer state.
//
// Each line is classified first (Classify) into a closed EventKind, then the
// Tracker switches on that kind. Only the Tracker mutates session state, and
// it is owned by one goroutine; readers get a View copy.
//
// State machine:
//
//	Idle --mission ready--> MissionRunning --last reward--> Idle
//	  ^                        |
//	  +-------abort/fail-------+
//
// StageRunning nests inside the mission: a stage start keyword enters it, the
// matching end keyword leaves it and offers the stage time to the per-kind
// best record for the five tracked kinds.
//
// Timestamps come from the first token of each line as fractional seconds.
// Lines without a numeric first token are ignored, except mission descriptor
// lines which are recognised by their fixed middle tokens alone.
package bounty
