package app

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/five82/bountyclock/internal/bounty"
	"github.com/five82/bountyclock/internal/history"
	"github.com/five82/bountyclock/internal/logtail"
	"github.com/five82/bountyclock/internal/state"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	maxBackoff          = 30 * time.Second
	clockInterval       = time.Second
)

// Recorder persists finished bounties and stages.
type Recorder interface {
	InsertCompletion(ctx context.Context, c history.Completion) (history.Completion, error)
	InsertStage(ctx context.Context, st history.Stage) (history.Stage, error)
}

// calculateBackoff returns the poll delay after the given number of
// consecutive failures: base doubled per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// tailLoop owns the tracker. Only the tail goroutine touches it.
type tailLoop struct {
	tailer   *logtail.Tailer
	tracker  *bounty.Tracker
	store    *state.Store
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time

	ready    bool
	failures int
}

func newTailLoop(tailer *logtail.Tailer, tracker *bounty.Tracker, store *state.Store, recorder Recorder, logger *slog.Logger) *tailLoop {
	if logger == nil {
		logger = slog.Default()
	}
	return &tailLoop{
		tailer:   tailer,
		tracker:  tracker,
		store:    store,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// step polls the log once and feeds every new line through the tracker.
func (l *tailLoop) step(ctx context.Context) error {
	lines, err := l.tailer.Poll()
	if err != nil {
		l.failures++
		l.store.ReportError(err)
		if l.failures == 1 || l.failures%50 == 0 {
			l.logger.Warn("log poll failed", "path", l.tailer.Path(), "failures", l.failures, "error", err)
		}
		return err
	}
	if l.failures > 0 {
		l.logger.Info("log readable again", "path", l.tailer.Path(), "after_failures", l.failures)
	}
	l.failures = 0
	l.store.ClearError()

	changed := false
	if !l.ready {
		l.tracker.MarkReady()
		l.ready = true
		changed = true
	}
	for _, line := range lines {
		out := l.tracker.Apply(line)
		l.handle(ctx, line, out)
		changed = changed || out.Changed
	}
	if changed {
		l.store.Publish(l.tracker.View())
	}
	return nil
}

func (l *tailLoop) handle(ctx context.Context, line string, out bounty.Outcome) {
	if out.Err != nil {
		level := slog.LevelWarn
		if errors.Is(out.Err, bounty.ErrMissingKeys) {
			level = slog.LevelDebug
		}
		l.logger.Log(ctx, level, "skipped log line", "error", out.Err, "line", line)
	}
	if st := out.Stage; st != nil {
		l.logger.Debug("stage finished", "kind", string(st.Kind), "seconds", st.Duration, "best", st.BestChanged)
		if l.recorder != nil {
			_, err := l.recorder.InsertStage(ctx, history.Stage{
				FinishedAt: l.now(),
				Kind:       st.Kind,
				Duration:   secondsToDuration(st.Duration),
			})
			if err != nil {
				l.logger.Error("record stage failed", "error", err)
			}
		}
	}
	if c := out.Completion; c != nil {
		l.logger.Info("bounty completed",
			"label", c.Bounty.Label,
			"seconds", c.Duration,
			"best", c.BestChanged,
			"averaged", c.Averaged,
		)
		if l.recorder != nil {
			_, err := l.recorder.InsertCompletion(ctx, history.Completion{
				FinishedAt: l.now(),
				Duration:   secondsToDuration(c.Duration),
				Tent:       c.Bounty.Tent,
				Tier:       c.Bounty.Descriptor.Tier,
				Stages:     c.Bounty.Names,
				Wanted:     c.Bounty.Validity == bounty.ValidityWanted,
			})
			if err != nil {
				l.logger.Error("record completion failed", "error", err)
			}
		}
	}
}

// startTailer launches the tail goroutine. It polls every interval, backs off
// while the log is unreadable, and polls early when wake fires. It returns
// immediately.
func startTailer(ctx context.Context, loop *tailLoop, interval time.Duration, wake <-chan struct{}) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			case <-wake:
			}
			delay := interval
			if err := loop.step(ctx); err != nil {
				delay = calculateBackoff(loop.failures, interval)
			}
			timer.Reset(delay)
		}
	}()
}

// StartClock advances the live timers once per interval until ctx ends.
func StartClock(ctx context.Context, store *state.Store, interval time.Duration) {
	if interval <= 0 {
		interval = clockInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				store.Tick(interval)
			}
		}
	}()
}

// watchLog signals on the returned channel whenever the log file is written
// or recreated. The directory is watched so a rotated file is picked up.
func watchLog(ctx context.Context, path string, logger *slog.Logger) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	target := filepath.Clean(path)
	wake := make(chan struct{}, 1)
	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("log watcher error", "error", err)
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
				}
			}
		}
	}()
	return wake, nil
}

func secondsToDuration(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
