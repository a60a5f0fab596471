package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/bountyclock/internal/api"
	"github.com/five82/bountyclock/internal/bounty"
	"github.com/five82/bountyclock/internal/config"
	"github.com/five82/bountyclock/internal/history"
	"github.com/five82/bountyclock/internal/logtail"
	"github.com/five82/bountyclock/internal/prefs"
	"github.com/five82/bountyclock/internal/refdata"
	"github.com/five82/bountyclock/internal/state"
	"github.com/five82/bountyclock/internal/ui"
)

// Options configure the overlay.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/bountyclock/prefs.toml
	PollEvery  time.Duration // zero uses poll_ms from the config
}

// Run boots the overlay until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog := NewLogger(cfg.AppLogPath)
	defer closeLog()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs failed", "error", err)
	}

	tables, err := LoadTables(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var recorder Recorder
	var hist *history.Store
	if cfg.HistoryPath != "" {
		hist, err = history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Warn("history disabled", "path", cfg.HistoryPath, "error", err)
		} else {
			defer func() { _ = hist.Close() }()
			recorder = hist
		}
	}

	store := state.NewStore(cfg.LogPath)
	loop := newTailLoop(logtail.New(cfg.LogPath, 0), bounty.NewTracker(tables), store, recorder, logger)

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = opts.PollEvery
	}

	var wake <-chan struct{}
	if cfg.Watch {
		wake, err = watchLog(ctx, cfg.LogPath, logger)
		if err != nil {
			logger.Warn("log watcher unavailable, polling only", "path", cfg.LogPath, "error", err)
		}
	}

	startTailer(ctx, loop, interval, wake)
	StartClock(ctx, store, clockInterval)

	if cfg.StatusBind != "" {
		var src api.HistorySource
		if hist != nil {
			src = hist
		}
		srv := api.NewServer(store, src, logger)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.StatusBind); err != nil {
				logger.Error("status api stopped", "addr", cfg.StatusBind, "error", err)
			}
		}()
	}

	logger.Info("overlay started", "log", cfg.LogPath, "poll", interval, "watch", wake != nil)
	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     store,
		ThemeName: userPrefs.Theme,
		Details:   userPrefs.Details,
		PrefsPath: opts.PrefsPath,
	})
}

// LoadTables reads the reference tables named by cfg, logging a warning for
// each missing file.
func LoadTables(cfg config.Config, logger *slog.Logger) (refdata.Tables, error) {
	res, err := refdata.Load(cfg.WantedPath, cfg.TranslationPath)
	if err != nil {
		return refdata.Tables{}, fmt.Errorf("load reference data: %w", err)
	}
	if res.MissingWanted {
		logger.Warn("wanted stage list missing; every bounty shows as unwanted", "path", cfg.WantedPath)
	}
	if res.MissingNames {
		logger.Warn("stage translation table missing; names fall back to ids", "path", cfg.TranslationPath)
	}
	return res.Tables, nil
}

// NewLogger returns a text logger appending to path. The terminal belongs to
// the overlay, so when path cannot be opened log output is discarded.
func NewLogger(path string) (*slog.Logger, func()) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if path == "" {
		return discard, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return discard, func() {}
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, func() { _ = f.Close() }
}
