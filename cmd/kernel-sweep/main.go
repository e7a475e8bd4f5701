// Command kernel-sweep ranks kernel presets, seed patterns and interconnect
// masks by how well they hold rotational symmetry.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"time"

	"cyclario/internal/sims/cyclario"
)

func main() {
	steps := flag.Int("steps", 240, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	maskMode := flag.String("masks", "single", "interconnect masks: none, single or all")
	top := flag.Int("top", 10, "results to print")
	configPath := flag.String("config", "", "YAML config supplying gate settings and user presets")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	base := cyclario.DefaultConfig()
	if *configPath != "" {
		cfg, err := cyclario.LoadConfig(*configPath)
		if err != nil {
			logger.Error("load config", slog.Any("error", err))
			os.Exit(1)
		}
		base = cfg
	}
	links, err := masks(*maskMode)
	if err != nil {
		logger.Error("masks", slog.Any("error", err))
		os.Exit(2)
	}

	presets := append(cyclario.BuiltinPresets(), base.Presets...)
	scs := scenarios(presets, cyclario.BuiltinPatterns(), links)
	fmt.Printf("Sweeping %d scenarios (%d workers, %d steps)\n", len(scs), *workers, *steps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	results, err := sweep(ctx, base, scs, *steps, *workers, quiet)
	if err != nil {
		logger.Error("sweep aborted", slog.Any("error", err))
		os.Exit(1)
	}
	elapsed := time.Since(start)

	fmt.Printf("Completed in %s\n", elapsed.Round(time.Millisecond))
	for i, r := range topN(results, *top) {
		extinct := "never"
		if r.extinctAtTick >= 0 {
			extinct = fmt.Sprintf("tick %d", r.extinctAtTick)
		}
		fmt.Printf("%2d. invariance=%.4f deltaS=%.2f active=%.1f final=%d extinct=%s %s\n",
			i+1, r.meanInvar, r.meanDelta, r.meanActive, r.finalActive, extinct, r.scenario)
	}
}
