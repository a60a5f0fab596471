package ui

import (
	"fmt"
	"time"
)

// FormatDuration renders d as H:MM:SS.mmm. Milliseconds are truncated, and
// negative durations render as zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// FormatSeconds is FormatDuration for a value in seconds.
func FormatSeconds(v float64) string {
	return FormatDuration(time.Duration(v * float64(time.Second)))
}
