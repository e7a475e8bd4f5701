// Command cyclario runs, inspects and records cyclario lattice sessions.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cyclario/internal/sims/cyclario"
)

type sessionFlags struct {
	configPath string
	seed       int64
	delay      time.Duration
	history    int
	preset     string
	pattern    string
	rows       string
	cols       string
	logLevel   string
	logFormat  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &sessionFlags{}
	root := &cobra.Command{
		Use:           "cyclario",
		Short:         "Toroidal gate-lattice automaton",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd, f)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "YAML config file")
	pf.Int64Var(&f.seed, "seed", 0, "RNG seed for decorative metrics and generated patterns")
	pf.DurationVar(&f.delay, "delay", 0, "tick interval")
	pf.IntVar(&f.history, "history", 0, "metrics history length")
	pf.StringVar(&f.preset, "preset", "", "kernel preset name")
	pf.StringVar(&f.pattern, "pattern", "", "pattern id seeded on reset")
	pf.StringVar(&f.rows, "rows", "", "enabled row channels, e.g. 1,7")
	pf.StringVar(&f.cols, "cols", "", "enabled column channels, e.g. 4")
	pf.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&f.logFormat, "log-format", "text", "text or json")

	root.AddCommand(
		newRunCmd(f),
		newTUICmd(f),
		newSpectrumCmd(f),
		newPresetsCmd(f),
		newPatternsCmd(),
		newRunsCmd(),
	)
	return root
}

func setupLogging(cmd *cobra.Command, f *sessionFlags) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(f.logFormat) {
	case "json":
		h = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case "text", "":
		h = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return fmt.Errorf("unknown log format %q", f.logFormat)
	}
	slog.SetDefault(slog.New(h))
	return nil
}

// config resolves the session config: file first, then any flag the user set.
func (f *sessionFlags) config(cmd *cobra.Command) (cyclario.Config, error) {
	cfg := cyclario.DefaultConfig()
	if f.configPath != "" {
		loaded, err := cyclario.LoadConfig(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("delay") && f.delay > 0 {
		cfg.Delay = f.delay
	}
	if flags.Changed("history") && f.history > 0 {
		cfg.HistoryCap = f.history
	}
	if flags.Changed("preset") {
		cfg.Preset = f.preset
	}
	if flags.Changed("pattern") {
		cfg.Pattern = f.pattern
	}
	if flags.Changed("rows") {
		rows, err := cyclario.ParseChannelList(f.rows)
		if err != nil {
			return cfg, fmt.Errorf("--rows: %w", err)
		}
		cfg.Interconnects.Rows = rows
	}
	if flags.Changed("cols") {
		cols, err := cyclario.ParseChannelList(f.cols)
		if err != nil {
			return cfg, fmt.Errorf("--cols: %w", err)
		}
		cfg.Interconnects.Cols = cols
	}
	return cfg, nil
}

func (f *sessionFlags) session(cmd *cobra.Command) (*cyclario.Session, cyclario.Config, error) {
	cfg, err := f.config(cmd)
	if err != nil {
		return nil, cfg, err
	}
	return cyclario.NewWithConfig(cfg), cfg, nil
}
