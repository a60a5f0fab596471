// Package main provides the CLI entrypoint for bountyclock.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/bountyclock/internal/api"
	"github.com/five82/bountyclock/internal/app"
	"github.com/five82/bountyclock/internal/config"
	"github.com/five82/bountyclock/internal/history"
	"github.com/five82/bountyclock/internal/stats"
	"github.com/five82/bountyclock/internal/ui"
)

const (
	defaultHistoryLimit = 20
	statusTimeout       = 5 * time.Second
)

var (
	configPath string
	pollEvery  time.Duration

	replayTail  int
	replayColor bool

	historyLimit int

	statusAddr string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bountyclock",
		Short:         "Bounty timer overlay driven by the game log",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runOverlayCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: "+config.DefaultPath()+")")
	rootCmd.Flags().DurationVar(&pollEvery, "poll", 0, "log poll interval, overrides poll_ms (e.g. 250ms)")

	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

func runOverlayCmd(cmd *cobra.Command, _ []string) error {
	return app.Run(cmd.Context(), app.Options{
		ConfigPath: configPath,
		PollEvery:  pollEvery,
	})
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Run a saved log through the tracker and print the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
	cmd.Flags().IntVar(&replayTail, "tail", 0, "only replay the last N lines")
	cmd.Flags().BoolVar(&replayColor, "color", false, "force colour output")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, closeLog := app.NewLogger(cfg.AppLogPath)
	defer closeLog()

	tables, err := app.LoadTables(cfg, logger)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, err = app.Replay(cmd.Context(), args[0], tables, out, app.ReplayOptions{
		Tail:  replayTail,
		Color: shouldUseColor(out, replayColor),
	})
	return err
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent completions and all-time bests",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of completions to list")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close history: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	recent, err := st.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}
	bests, err := st.Bests(ctx)
	if err != nil {
		return err
	}
	return writeHistory(cmd.OutOrStdout(), recent, bests)
}

func writeHistory(w io.Writer, recent []history.Completion, bests history.Bests) error {
	rows := make([][]string, 0, len(recent))
	for _, c := range recent {
		wanted := "no"
		if c.Wanted {
			wanted = "yes"
		}
		rows = append(rows, []string{
			c.FinishedAt.Local().Format("2006-01-02 15:04"),
			ui.FormatDuration(c.Duration),
			c.Tent,
			c.Tier,
			wanted,
			joinStages(c.Stages),
		})
	}
	if err := writeTable(w, []string{"FINISHED", "TIME", "TENT", "TIER", "WANTED", "STAGES"}, rows); err != nil {
		return err
	}

	best := "-"
	if bests.Overall > 0 {
		best = ui.FormatDuration(bests.Overall)
	}
	if _, err := fmt.Fprintf(w, "\n%d completions, best %s\n", bests.Completions, best); err != nil {
		return err
	}
	for _, k := range stats.TrackedKinds {
		if d, ok := bests.Stages[k]; ok {
			if _, err := fmt.Fprintf(w, "best %s: %s\n", k.Label(), ui.FormatDuration(d)); err != nil {
				return err
			}
		}
	}
	return nil
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Query a running overlay through its status API",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
	cmd.Flags().StringVar(&statusAddr, "addr", "", "status API address (default: status_bind from config)")
	return cmd
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	addr := statusAddr
	if addr == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		addr = cfg.StatusBind
	}
	client, err := api.NewClient(addr)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	status, err := client.FetchStatus(ctx)
	if err != nil {
		return fmt.Errorf("fetch status: %w", err)
	}
	return writeStatus(cmd.OutOrStdout(), status)
}

func writeStatus(w io.Writer, s *api.StatusResponse) error {
	best := "-"
	if s.BestMS != nil {
		best = ui.FormatDuration(time.Duration(*s.BestMS) * time.Millisecond)
	}
	ms := func(v int64) string { return ui.FormatDuration(time.Duration(v) * time.Millisecond) }

	rows := [][]string{
		{"status", s.Status},
		{"validity", s.Validity},
		{"completed", fmt.Sprintf("%d", s.Cycles)},
		{"stages done", fmt.Sprintf("%d/%d", s.Completed, s.Expected)},
		{"timer", ms(s.TimerMS)},
		{"best", best},
		{"average", ms(s.AverageMS)},
		{"median", ms(s.MedianMS)},
		{"stage timer", ms(s.StageTimerMS)},
	}
	for _, k := range stats.TrackedKinds {
		if v, ok := s.StageBestMS[string(k)]; ok {
			rows = append(rows, []string{"best " + k.Label(), ms(v)})
		}
	}
	rows = append(rows, []string{"log", s.LogPath})
	if s.LastError != "" {
		rows = append(rows, []string{"error", fmt.Sprintf("%s (%d failures)", s.LastError, s.Failures)})
	}
	return writeTable(w, nil, rows)
}
