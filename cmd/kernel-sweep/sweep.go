package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"cyclario/internal/sims/cyclario"
)

// scenario is one preset, pattern and interconnect combination.
type scenario struct {
	preset  string
	pattern string
	links   cyclario.Interconnects
}

func (s scenario) String() string {
	pattern := s.pattern
	if pattern == "" {
		pattern = "default"
	}
	return fmt.Sprintf("preset=%s pattern=%s rows=%s cols=%s",
		s.preset, pattern, channels(s.links.Rows), channels(s.links.Cols))
}

type result struct {
	scenario      scenario
	meanInvar     float64
	meanDelta     float64
	meanActive    float64
	finalActive   int
	extinctAtTick int
}

// masks returns the interconnect masks for mode: "none", "single" (no
// channels plus each channel alone) or "all" (every combination).
func masks(mode string) ([]cyclario.Interconnects, error) {
	none := cyclario.Interconnects{}
	switch mode {
	case "none":
		return []cyclario.Interconnects{none}, nil
	case "single":
		out := []cyclario.Interconnects{none}
		for i := range cyclario.ChannelCount {
			var r, c cyclario.Interconnects
			r.Rows[i] = true
			c.Cols[i] = true
			out = append(out, r, c)
		}
		return out, nil
	case "all":
		var out []cyclario.Interconnects
		for bits := 0; bits < 1<<(2*cyclario.ChannelCount); bits++ {
			var ic cyclario.Interconnects
			for i := range cyclario.ChannelCount {
				ic.Rows[i] = bits&(1<<i) != 0
				ic.Cols[i] = bits&(1<<(i+cyclario.ChannelCount)) != 0
			}
			out = append(out, ic)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown mask mode %q", mode)
	}
}

func scenarios(presets []cyclario.Preset, patterns []cyclario.Pattern, links []cyclario.Interconnects) []scenario {
	ids := []string{""}
	for _, p := range patterns {
		ids = append(ids, p.ID)
	}
	var out []scenario
	for _, p := range presets {
		for _, id := range ids {
			for _, ic := range links {
				out = append(out, scenario{preset: p.Name, pattern: id, links: ic})
			}
		}
	}
	return out
}

func runScenario(base cyclario.Config, sc scenario, steps int, logger *slog.Logger) result {
	cfg := base
	cfg.Preset = sc.preset
	cfg.Pattern = sc.pattern
	cfg.Interconnects = sc.links
	cfg.HistoryCap = max(steps, 1)
	sess := cyclario.NewWithConfig(cfg)
	sess.SetLogger(logger)

	res := result{scenario: sc, extinctAtTick: -1}
	var invar, delta, active float64
	for i := range steps {
		sess.Step()
		m := sess.Metrics()
		invar += m.Invariance
		delta += m.DeltaSwastika
		active += float64(m.ActiveCells)
		if m.ActiveCells == 0 && res.extinctAtTick < 0 {
			res.extinctAtTick = i + 1
		}
	}
	if steps > 0 {
		n := float64(steps)
		res.meanInvar = invar / n
		res.meanDelta = delta / n
		res.meanActive = active / n
	}
	res.finalActive = sess.Metrics().ActiveCells
	return res
}

// sweep runs every scenario on at most workers goroutines and returns the
// results ranked best first.
func sweep(ctx context.Context, base cyclario.Config, scs []scenario, steps, workers int, logger *slog.Logger) ([]result, error) {
	results := make([]result, len(scs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, sc := range scs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runScenario(base, sc, steps, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rank(results)
	return results, nil
}

// rank orders by mean invariance, then by smaller mean deltaS.
func rank(rs []result) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].meanInvar != rs[j].meanInvar {
			return rs[i].meanInvar > rs[j].meanInvar
		}
		return rs[i].meanDelta < rs[j].meanDelta
	})
}

// topN returns the first n results, clamping n to [0, len(rs)].
func topN(rs []result, n int) []result {
	return rs[:max(0, min(n, len(rs)))]
}

func channels(flags [cyclario.ChannelCount]bool) string {
	if s := cyclario.FormatChannelList(flags); s != "" {
		return s
	}
	return "-"
}
