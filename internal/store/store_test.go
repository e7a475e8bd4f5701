package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cyclario/internal/sims/cyclario"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBeginRunAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.BeginRun(ctx, Run{Preset: "Standard", Seed: 1, StartedAt: time.Unix(100, 0).UTC()})
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if first.ID == "" {
		t.Fatal("run id must be generated")
	}
	second, err := s.BeginRun(ctx, Run{Preset: "Oscillator", Pattern: "default-2", Seed: 2, Rows: "4"})
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("run ids must be unique")
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != second.ID {
		t.Fatalf("runs = %+v, want newest first", runs)
	}
	if runs[0].Pattern != "default-2" || runs[0].Rows != "4" {
		t.Fatalf("run fields not stored: %+v", runs[0])
	}
}

func TestRecordAndReadMetrics(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run, err := s.BeginRun(ctx, Run{Preset: "Standard"})
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}

	m := cyclario.Metrics{Invariance: 0.8, SyncDelta: 6, Latency: 3 * time.Microsecond, ActiveCells: 4}
	for tick := uint64(1); tick <= 3; tick++ {
		if err := s.RecordMetrics(ctx, run.ID, tick, m); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recs, err := s.RunMetrics(ctx, run.ID)
	if err != nil {
		t.Fatalf("run metrics: %v", err)
	}
	if len(recs) != 3 || recs[0].Tick != 1 || recs[2].Tick != 3 {
		t.Fatalf("records = %+v", recs)
	}
	if recs[1].Metrics != m {
		t.Fatalf("metrics = %+v, want %+v", recs[1].Metrics, m)
	}

	if _, err := s.RunMetrics(ctx, "missing"); !errors.Is(err, ErrUnknownRun) {
		t.Fatalf("err = %v, want ErrUnknownRun", err)
	}
}

func TestRecorderFlushesOnClose(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	run, err := s.BeginRun(ctx, Run{Preset: "Standard"})
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}

	rec := NewRecorder(s, run.ID, 64, nil)
	sess := cyclario.New()
	detach := sess.Observe(rec)
	for range 20 {
		sess.Step()
	}
	detach()
	rec.Close()
	sess.Step()

	if rec.Written()+rec.Dropped() != 20 {
		t.Fatalf("written %d + dropped %d != 20", rec.Written(), rec.Dropped())
	}
	recs, err := s.RunMetrics(ctx, run.ID)
	if err != nil {
		t.Fatalf("run metrics: %v", err)
	}
	if uint64(len(recs)) != rec.Written() {
		t.Fatalf("stored %d ticks, recorder wrote %d", len(recs), rec.Written())
	}

	rec.ObserveTick(99, cyclario.Metrics{})
	rec.Close()
}
