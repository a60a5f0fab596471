package ui

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"zero", 0, "0:00:00.000"},
		{"negative clamps", -5 * time.Second, "0:00:00.000"},
		{"millis", 1500 * time.Millisecond, "0:00:01.500"},
		{"truncates micros", 1999999 * time.Microsecond, "0:00:01.999"},
		{"minutes", 5*time.Minute + 1*time.Second, "0:05:01.000"},
		{"hours", 2*time.Hour + 3*time.Minute + 4*time.Second + 5*time.Millisecond, "2:03:04.005"},
		{"past ten hours", 12 * time.Hour, "12:00:00.000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.in); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(301.5); got != "0:05:01.500" {
		t.Fatalf("FormatSeconds(301.5) = %q", got)
	}
	if got := FormatSeconds(4); got != "0:00:04.000" {
		t.Fatalf("FormatSeconds(4) = %q", got)
	}
}
