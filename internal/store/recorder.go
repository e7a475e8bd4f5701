package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"cyclario/internal/sims/cyclario"
)

// DefaultRecorderBuffer is the queue length of a Recorder.
const DefaultRecorderBuffer = 256

type tickRecord struct {
	tick uint64
	m    cyclario.Metrics
}

// Recorder writes ticks to a Store from a background goroutine. ObserveTick
// never blocks the session: when the queue is full the tick is dropped and
// counted.
type Recorder struct {
	store  *Store
	runID  string
	logger *slog.Logger

	ch      chan tickRecord
	done    chan struct{}
	once    sync.Once
	closed  atomic.Bool
	dropped atomic.Uint64
	written atomic.Uint64
}

// NewRecorder starts a recorder for runID. buffer <= 0 uses
// DefaultRecorderBuffer.
func NewRecorder(s *Store, runID string, buffer int, logger *slog.Logger) *Recorder {
	if buffer <= 0 {
		buffer = DefaultRecorderBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		store:  s,
		runID:  runID,
		logger: logger.With(slog.String("component", "recorder"), slog.String("run", runID)),
		ch:     make(chan tickRecord, buffer),
		done:   make(chan struct{}),
	}
	go r.loop()
	return r
}

// ObserveTick implements cyclario.TickObserver.
func (r *Recorder) ObserveTick(tick uint64, m cyclario.Metrics) {
	if r.closed.Load() {
		return
	}
	select {
	case r.ch <- tickRecord{tick: tick, m: m}:
	default:
		if r.dropped.Add(1) == 1 {
			r.logger.Warn("recorder queue full, dropping ticks", slog.Uint64("tick", tick))
		}
	}
}

func (r *Recorder) loop() {
	defer close(r.done)
	for rec := range r.ch {
		if err := r.store.RecordMetrics(context.Background(), r.runID, rec.tick, rec.m); err != nil {
			r.logger.Error("record tick", slog.Any("error", err))
			continue
		}
		r.written.Add(1)
	}
}

// Close stops accepting ticks and waits until the queue is flushed. It must not
// race with ObserveTick: call the detach func returned by Session.Observe first,
// or stop the tick driver.
func (r *Recorder) Close() {
	r.once.Do(func() {
		r.closed.Store(true)
		close(r.ch)
	})
	<-r.done
}

// Dropped reports how many ticks were discarded.
func (r *Recorder) Dropped() uint64 { return r.dropped.Load() }

// Written reports how many ticks reached the store.
func (r *Recorder) Written() uint64 { return r.written.Load() }
