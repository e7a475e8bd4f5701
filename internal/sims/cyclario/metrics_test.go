package cyclario

import (
	"math"
	"slices"
	"testing"
	"time"

	"cyclario/internal/core"
	pcore "cyclario/pkg/core"
)

func TestRotationPartner(t *testing.T) {
	if got := RotationPartner(0, 0); got != (core.Coord{Row: 0, Col: 8}) {
		t.Fatalf("partner of (0,0) = %+v, want (0,8)", got)
	}
	if got := RotationPartner(4, 4); got != (core.Coord{Row: 4, Col: 4}) {
		t.Fatalf("centre must be fixed, got %+v", got)
	}
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			c := core.Coord{Row: i, Col: j}
			for range 4 {
				c = RotationPartner(c.Row, c.Col)
			}
			if c != (core.Coord{Row: i, Col: j}) {
				t.Fatalf("four quarter turns moved (%d,%d) to %+v", i, j, c)
			}
		}
	}
}

func TestAnalyzeEmptyLattice(t *testing.T) {
	m := Analyze(Lattice{}, Lattice{})
	if m.SyncDelta != 0 || m.PredictionError != 0 || m.DeltaSwastika != 0 {
		t.Fatalf("empty lattice is symmetric, got %+v", m)
	}
	if math.Abs(m.Invariance-0.8) > 1e-9 {
		t.Fatalf("invariance = %v, want 0.8", m.Invariance)
	}
	if m.Reversibility != 1 {
		t.Fatalf("reversibility = %v, want 1", m.Reversibility)
	}
}

func TestAnalyzeCornerCell(t *testing.T) {
	var next Lattice
	next[0][0][0] = StateActive
	m := Analyze(next, Lattice{})

	if m.SyncDelta != 2 {
		t.Fatalf("deltaS = %v, want 2", m.SyncDelta)
	}
	if want := 2.0 / 81 * 100; math.Abs(m.PredictionError-want) > 1e-9 {
		t.Fatalf("prediction error = %v, want %v", m.PredictionError, want)
	}
	if math.Abs(m.DeltaSwastika-0.84) > 1e-9 {
		t.Fatalf("delta swastika = %v, want 0.84", m.DeltaSwastika)
	}
	if want := 1 - math.Abs(0.2-1.0/81); math.Abs(m.Invariance-want) > 1e-9 {
		t.Fatalf("invariance = %v, want %v", m.Invariance, want)
	}
	if want := 1 - 1/40.5; math.Abs(m.Reversibility-want) > 1e-9 {
		t.Fatalf("reversibility = %v, want %v", m.Reversibility, want)
	}
	if m.ActiveCells != 1 || m.ChangedCells != 1 {
		t.Fatalf("counts = %d active, %d changed", m.ActiveCells, m.ChangedCells)
	}
}

func TestAnalyzeReversibilityFloorsAtZero(t *testing.T) {
	var next Lattice
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			next[i][j][0] = StateActive
		}
	}
	if m := Analyze(next, Lattice{}); m.Reversibility != 0 {
		t.Fatalf("reversibility = %v, want 0", m.Reversibility)
	}
}

func TestDecorativeMetricRanges(t *testing.T) {
	rng := pcore.NewRNG(3)
	for i := range 100 {
		p := PhaseContinuity(rng)
		if p < 0.99 || p >= 1 {
			t.Fatalf("phase continuity %v out of range", p)
		}
		d := CalibrationDrift(time.UnixMilli(int64(i) * 977))
		if d < -0.04-1e-12 || d > 0.06+1e-12 {
			t.Fatalf("calibration drift %v out of range", d)
		}
	}
}

func TestHistoryBounded(t *testing.T) {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Append(Metrics{SyncDelta: float64(i)})
	}
	if h.Len() != 3 {
		t.Fatalf("len = %d, want 3", h.Len())
	}
	if got := h.Series(MetricSyncDelta); !slices.Equal(got, []float64{3, 4, 5}) {
		t.Fatalf("series = %v, want oldest first [3 4 5]", got)
	}
	if m, ok := h.Latest(); !ok || m.SyncDelta != 5 {
		t.Fatalf("latest = %+v, %v", m, ok)
	}

	h.Clear()
	if h.Len() != 0 || len(h.Snapshots()) != 0 {
		t.Fatal("clear must empty the history")
	}
	if _, ok := h.Latest(); ok {
		t.Fatal("empty history has no latest entry")
	}
	if NewHistory(0).Cap() != DefaultHistoryCap {
		t.Fatal("non-positive capacity should use the default")
	}
}

func TestMetricValueLatencyInMillis(t *testing.T) {
	m := Metrics{Latency: 1500 * time.Microsecond}
	if v, ok := m.Value(MetricLatency); !ok || v != 1.5 {
		t.Fatalf("latency = %v, %v; want 1.5 ms", v, ok)
	}
	if _, ok := m.Value("bogus"); ok {
		t.Fatal("unknown key must not resolve")
	}
}

func TestNormalizeSeries(t *testing.T) {
	if got := NormalizeSeries([]float64{2, 4, 6}); !slices.Equal(got, []float64{0, 0.5, 1}) {
		t.Fatalf("normalized = %v", got)
	}
	if got := NormalizeSeries([]float64{5, 5}); !slices.Equal(got, []float64{0, 0}) {
		t.Fatalf("flat series = %v, want zeros", got)
	}
	got := NormalizeSeries([]float64{math.NaN(), 2, math.Inf(1)})
	if !slices.Equal(got, []float64{0, 1, 0}) {
		t.Fatalf("non-finite samples = %v, want [0 1 0]", got)
	}
	if len(NormalizeSeries(nil)) != 0 {
		t.Fatal("empty input yields empty output")
	}
}
