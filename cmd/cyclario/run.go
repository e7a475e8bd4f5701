package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"cyclario/internal/core"
	"cyclario/internal/sims/cyclario"
	"cyclario/internal/store"
	"cyclario/internal/telemetry"
)

func newRunCmd(f *sessionFlags) *cobra.Command {
	var (
		ticks       int64
		dbPath      string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a headless session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, cfg, err := f.session(cmd)
			if err != nil {
				return err
			}
			logger := slog.Default().With(slog.String("component", "run"))

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			sess.Observe(telemetry.NewCollector(reg))

			if metricsAddr != "" {
				srv := serveMetrics(metricsAddr, reg, logger)
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					_ = srv.Shutdown(ctx)
				}()
			}

			if dbPath != "" {
				stopRecording, err := startRecorder(cmd.Context(), dbPath, cfg, sess, logger)
				if err != nil {
					return err
				}
				defer stopRecording()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			var done atomic.Int64
			sched := core.NewScheduler(sess.Delay(), func() {
				sess.Step()
				if ticks > 0 && done.Add(1) >= ticks {
					cancel()
				}
			})
			logger.Info("session started",
				slog.String("preset", sess.PresetName()),
				slog.Duration("delay", sched.Delay()),
				slog.Int64("ticks", ticks))
			sched.Start(ctx)
			<-sched.Done()

			m := sess.Metrics()
			logger.Info("session stopped", slog.Uint64("tick", sess.Tick()))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tick %d preset %s\n", sess.Tick(), sess.PresetName())
			for _, key := range cyclario.MetricKeys {
				v, _ := m.Value(key)
				fmt.Fprintf(out, "%-18s %.6f\n", key, v)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&ticks, "ticks", 0, "stop after N ticks (0 runs until interrupted)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to record the run into")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9108")
	return cmd
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", slog.Any("error", err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", addr))
	return srv
}

// startRecorder opens the store, begins a run and attaches a recorder to sess.
// The returned func detaches the recorder, flushes it and closes the store.
func startRecorder(ctx context.Context, path string, cfg cyclario.Config, sess *cyclario.Session, logger *slog.Logger) (func(), error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	run, err := st.BeginRun(ctx, store.Run{
		Preset:  sess.PresetName(),
		Pattern: cfg.Pattern,
		Seed:    cfg.Seed,
		Rows:    cyclario.FormatChannelList(cfg.Interconnects.Rows),
		Cols:    cyclario.FormatChannelList(cfg.Interconnects.Cols),
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	logger.Info("recording run", slog.String("run", run.ID), slog.String("db", path))
	rec := store.NewRecorder(st, run.ID, 0, logger)
	detach := sess.Observe(rec)
	return func() {
		detach()
		rec.Close()
		if n := rec.Dropped(); n > 0 {
			logger.Warn("ticks dropped while recording", slog.Uint64("dropped", n))
		}
		st.Close()
	}, nil
}
