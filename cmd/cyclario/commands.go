package main

import (
	"fmt"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"cyclario/internal/sims/cyclario"
	"cyclario/internal/store"
	"cyclario/internal/tui"
)

func newTUICmd(f *sessionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal viewer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, _, err := f.session(cmd)
			if err != nil {
				return err
			}
			return tui.Run(sess, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		},
	}
}

func newSpectrumCmd(f *sessionFlags) *cobra.Command {
	var (
		ticks  int
		metric string
	)
	cmd := &cobra.Command{
		Use:   "spectrum",
		Short: "Step a session and print the magnitude spectrum of one metric",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := cyclario.MetricKey(metric)
			if _, ok := (cyclario.Metrics{}).Value(key); !ok {
				return fmt.Errorf("unknown metric %q", metric)
			}
			sess, _, err := f.session(cmd)
			if err != nil {
				return err
			}
			for range ticks {
				sess.Step()
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "bin\tmagnitude")
			for i, v := range sess.Spectrum(key) {
				fmt.Fprintf(w, "%d\t%.6f\n", i, v)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", cyclario.DefaultHistoryCap, "ticks to run before sampling")
	cmd.Flags().StringVar(&metric, "metric", string(cyclario.MetricDeltaSwastika), "metric key")
	return cmd
}

func newPresetsCmd(f *sessionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List kernel presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range append(cyclario.BuiltinPresets(), cfg.Presets...) {
				k, err := p.Kernel()
				if err != nil {
					fmt.Fprintf(w, "%s\tinvalid: %v\n", p.Name, err)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\n", p.Name, k)
			}
			return w.Flush()
		},
	}
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List built-in patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range cyclario.BuiltinPatterns() {
				l := p.Lattice()
				fmt.Fprintf(w, "%s\t%s\t%d cells\n", p.ID, p.Name, activeOn(l.Layer(cyclario.MidLayer)))
			}
			return w.Flush()
		},
	}
}

func newRunsCmd() *cobra.Command {
	var dbPath, runID string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs or print one run's metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if runID == "" {
				runs, err := st.Runs(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "id\tstarted\tpreset\tpattern\tseed\trows\tcols")
				for _, r := range runs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Preset, r.Pattern, r.Seed, r.Rows, r.Cols)
				}
				return w.Flush()
			}
			recs, err := st.RunMetrics(cmd.Context(), runID)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "tick\tinvariance\tsync_delta\treversibility\tactive")
			for _, r := range recs {
				fmt.Fprintf(w, "%d\t%.4f\t%.0f\t%.4f\t%d\n", r.Tick, r.Metrics.Invariance, r.Metrics.SyncDelta, r.Metrics.Reversibility, r.Metrics.ActiveCells)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "cyclario.db", "SQLite file")
	cmd.Flags().StringVar(&runID, "run", "", "run id to print")
	return cmd
}

func activeOn(layer [cyclario.Size][cyclario.Size]cyclario.State) int {
	n := 0
	for _, row := range layer {
		for _, s := range row {
			if s == cyclario.StateActive {
				n++
			}
		}
	}
	return n
}
