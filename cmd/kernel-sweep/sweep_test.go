package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"cyclario/internal/sims/cyclario"
)

func TestMaskModes(t *testing.T) {
	cases := map[string]int{"none": 1, "single": 1 + 2*cyclario.ChannelCount, "all": 1 << (2 * cyclario.ChannelCount)}
	for mode, want := range cases {
		got, err := masks(mode)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if len(got) != want {
			t.Fatalf("%s: %d masks, want %d", mode, len(got), want)
		}
	}
	if _, err := masks("some"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestScenariosCoverDefaultLattice(t *testing.T) {
	presets := cyclario.BuiltinPresets()[:1]
	patterns := cyclario.BuiltinPatterns()[:2]
	links, _ := masks("none")
	scs := scenarios(presets, patterns, links)
	if len(scs) != 3 {
		t.Fatalf("got %d scenarios, want 3", len(scs))
	}
	if scs[0].pattern != "" {
		t.Fatalf("first scenario should use the default lattice, got %q", scs[0].pattern)
	}
}

func TestSweepRanksByInvariance(t *testing.T) {
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	links, _ := masks("single")
	scs := scenarios(cyclario.BuiltinPresets()[:2], cyclario.BuiltinPatterns()[:2], links)
	results, err := sweep(context.Background(), cyclario.DefaultConfig(), scs, 6, 4, quiet)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != len(scs) {
		t.Fatalf("got %d results, want %d", len(results), len(scs))
	}
	for i := 1; i < len(results); i++ {
		if results[i].meanInvar > results[i-1].meanInvar {
			t.Fatalf("result %d out of order: %.4f after %.4f", i, results[i].meanInvar, results[i-1].meanInvar)
		}
	}
}

func TestSweepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	links, _ := masks("none")
	scs := scenarios(cyclario.BuiltinPresets()[:1], nil, links)
	if _, err := sweep(ctx, cyclario.DefaultConfig(), scs, 1, 1, nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRankBreaksTiesOnDelta(t *testing.T) {
	rs := []result{{meanInvar: 0.5, meanDelta: 3}, {meanInvar: 0.5, meanDelta: 1}, {meanInvar: 0.9, meanDelta: 9}}
	rank(rs)
	if rs[0].meanInvar != 0.9 || rs[1].meanDelta != 1 {
		t.Fatalf("unexpected order: %+v", rs)
	}
}

func TestTopNClamps(t *testing.T) {
	rs := make([]result, 3)
	for _, tc := range []struct{ n, want int }{{-1, 0}, {0, 0}, {2, 2}, {10, 3}} {
		if got := len(topN(rs, tc.n)); got != tc.want {
			t.Fatalf("topN(%d) returned %d results, want %d", tc.n, got, tc.want)
		}
	}
}
