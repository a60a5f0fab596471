// Package ui renders the bounty overlay with Bubble Tea.
//
// The overlay is two lines tall: the status line (bounty label coloured by
// wanted status) and the statistics line (completions, mission timer, best,
// IQR average, median, stage timer and the best time for the current stage
// kind). An optional block lists every tracked stage best, and a footer
// reports tailer health.
//
// The model never touches the tracker. It reads state.Snapshot copies on a
// short tick, so rendering cannot block log parsing.
//
// Keys: q/ctrl+c quit, T cycles the theme, d toggles the stage bests block,
// ? expands the help. Theme and details choices are saved to prefs.toml.
package ui
