package telemetry

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"cyclario/internal/sims/cyclario"
)

func TestCollectorObservesTicks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveTick(1, cyclario.Metrics{Invariance: 0.75, ActiveCells: 12, Latency: time.Millisecond})
	c.ObserveTick(2, cyclario.Metrics{Invariance: 0.5, SyncDelta: 4, ActiveCells: 9})

	if got := testutil.ToFloat64(c.ticks); got != 2 {
		t.Fatalf("ticks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.active); got != 9 {
		t.Fatalf("active cells = %v, want 9", got)
	}
	if got := testutil.ToFloat64(c.metric.WithLabelValues("invariance")); got != 0.5 {
		t.Fatalf("invariance gauge = %v, want 0.5", got)
	}
	if got := testutil.ToFloat64(c.metric.WithLabelValues("sync_delta")); got != 4 {
		t.Fatalf("sync_delta gauge = %v, want 4", got)
	}

	expected := `
# HELP cyclario_ticks_total Total number of committed lattice ticks
# TYPE cyclario_ticks_total counter
cyclario_ticks_total 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "cyclario_ticks_total"); err != nil {
		t.Fatal(err)
	}
}

func TestCollectorWiredToSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	s := cyclario.New()
	s.Observe(c)

	for range 5 {
		s.Step()
	}
	if got := testutil.ToFloat64(c.ticks); got != 5 {
		t.Fatalf("ticks = %v, want 5", got)
	}
	if got := testutil.CollectAndCount(c.metric); got != len(cyclario.MetricKeys)-1 {
		t.Fatalf("metric series = %d, want %d", got, len(cyclario.MetricKeys)-1)
	}
}
