package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"pkt.systems/pslog"

	"github.com/verte-zerg/lenuk/internal/config"
	"github.com/verte-zerg/lenuk/internal/generator"
	"github.com/verte-zerg/lenuk/internal/model"
	"github.com/verte-zerg/lenuk/internal/stats"
	"github.com/verte-zerg/lenuk/internal/statsui"
	"github.com/verte-zerg/lenuk/internal/store"
)

const defaultCurveWindow = 10

type statsFlags struct {
	lang   string
	mode   string
	since  string
	last   int
	window int
	plain  bool
}

func newStatsCmd() *cobra.Command {
	flags := &statsFlags{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats for past runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.lang, "lang", "", "language filter")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "mode filter: time or words")
	cmd.Flags().StringVar(&flags.since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&flags.last, "last", 0, "limit to last N runs")
	cmd.Flags().IntVar(&flags.window, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "print text output instead of the browser")
	return cmd
}

func statsConfig(f *statsFlags) (model.StatsConfig, error) {
	cfg := model.StatsConfig{
		Lang:        f.lang,
		Mode:        f.mode,
		Last:        f.last,
		CurveWindow: f.window,
	}
	switch generator.Mode(f.mode) {
	case "", generator.ModeTime, generator.ModeWords:
	default:
		return model.StatsConfig{}, fmt.Errorf("--mode must be %q or %q", generator.ModeTime, generator.ModeWords)
	}
	if f.since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", f.since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if f.last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if f.window <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--window must be > 0")
	}
	return cfg, nil
}

func runStats(cmd *cobra.Command, f *statsFlags) error {
	ctx := cmd.Context()
	cfg, err := statsConfig(f)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			pslog.Ctx(ctx).With("err", cerr).Warn("db close failed")
		}
	}()

	stdout := int(os.Stdout.Fd())
	if !f.plain && term.IsTerminal(stdout) {
		program := tea.NewProgram(statsui.NewModel(ctx, st, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Results); err != nil {
		return err
	}
	if len(report.Results) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	if err := stats.RenderHistory(out, report.Results, cfg.CurveWindow, stats.TerminalWidth(stdout)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	return stats.RenderCharTable(out, report.CharAggsWindow)
}
