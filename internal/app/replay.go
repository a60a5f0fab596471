package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/bountyclock/internal/bounty"
	"github.com/five82/bountyclock/internal/logtail"
	"github.com/five82/bountyclock/internal/refdata"
	"github.com/five82/bountyclock/internal/stats"
	"github.com/five82/bountyclock/internal/ui"
)

// ReplayOptions tune Replay.
type ReplayOptions struct {
	Tail  int  // only the last Tail lines; zero replays everything
	Color bool // colour completions by wanted status
}

// ReplaySummary is the tracker state after a replay.
type ReplaySummary struct {
	Lines       int
	Completions int
	Skipped     int
	View        bounty.View
}

var (
	replayWanted   = lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b"))
	replayUnwanted = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
	replayBest     = lipgloss.NewStyle().Bold(true)
)

// Replay feeds a whole log file through a fresh tracker and writes one line
// per completion followed by the resulting statistics.
func Replay(ctx context.Context, path string, tables refdata.Tables, w io.Writer, opts ReplayOptions) (ReplaySummary, error) {
	if _, err := os.Stat(path); err != nil {
		return ReplaySummary{}, fmt.Errorf("open log: %w", err)
	}
	lines, err := logtail.Read(path, opts.Tail)
	if err != nil {
		return ReplaySummary{}, fmt.Errorf("read log: %w", err)
	}

	tracker := bounty.NewTracker(tables)
	tracker.MarkReady()

	var summary ReplaySummary
	for i, line := range lines {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
		}
		summary.Lines++
		out := tracker.Apply(line)
		if out.Err != nil {
			summary.Skipped++
			continue
		}
		if c := out.Completion; c != nil {
			summary.Completions++
			if err := writeCompletion(w, c, opts.Color); err != nil {
				return summary, err
			}
		}
	}
	summary.View = tracker.View()
	return summary, writeSummary(w, path, summary)
}

func writeCompletion(w io.Writer, c *bounty.Completion, color bool) error {
	label := c.Bounty.Label
	if color {
		switch c.Bounty.Validity {
		case bounty.ValidityWanted:
			label = replayWanted.Render(label)
		case bounty.ValidityUnwanted:
			label = replayUnwanted.Render(label)
		}
	}
	line := fmt.Sprintf("%s  %s", ui.FormatSeconds(c.Duration), label)
	if c.BestChanged {
		marker := "(best)"
		if color {
			marker = replayBest.Render(marker)
		}
		line += "  " + marker
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func writeSummary(w io.Writer, path string, s ReplaySummary) error {
	v := s.View
	best := "-"
	if v.Best.Overall.Set {
		best = ui.FormatSeconds(v.Best.Overall.Value)
	}
	var errs []error
	printf := func(format string, args ...any) {
		if _, err := fmt.Fprintf(w, format, args...); err != nil {
			errs = append(errs, err)
		}
	}
	printf("\nreplayed %d lines from %s (%d skipped)\n", s.Lines, path, s.Skipped)
	printf("Bounties Completed: %d\n", v.Session.Cycles)
	printf("Best Time: %s\n", best)
	printf("Average: %s\n", ui.FormatSeconds(v.Average))
	printf("Median: %s\n", ui.FormatSeconds(v.Median))
	for _, k := range stats.TrackedKinds {
		if rec := v.Best.Stage(k); rec.Set {
			printf("Best %s: %s\n", k.Label(), ui.FormatSeconds(rec.Value))
		}
	}
	return errors.Join(errs...)
}
