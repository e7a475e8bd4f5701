package core

import (
	"context"
	"sync"
	"time"
)

// DefaultDelay is the tick interval used when none is configured.
const DefaultDelay = 16 * time.Millisecond

// Scheduler drives a tick function on a timer. The timer is re-armed only after
// the previous tick has returned, and ticks triggered by StepOnce share the same
// lock, so no two ticks ever run concurrently.
type Scheduler struct {
	tick   func()
	tickMu sync.Mutex

	mu     sync.Mutex
	delay  time.Duration
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler returns a stopped scheduler that calls tick once per delay while
// running.
func NewScheduler(delay time.Duration, tick func()) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{tick: tick, delay: delay}
}

// Start begins periodic ticking until Stop is called or ctx is cancelled. It
// returns false if the scheduler was already running.
func (s *Scheduler) Start(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runningLocked() {
		return false
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.loop(loopCtx, done)
	return true
}

// Stop halts periodic ticking and waits for the loop to exit. A tick already in
// progress completes first. Stop must not be called from inside the tick.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// StepOnce stops periodic ticking and runs exactly one tick synchronously.
func (s *Scheduler) StepOnce() {
	s.Stop()
	s.runTick()
}

// Running reports whether the periodic loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningLocked()
}

// Done returns a channel closed when the current loop exits. It returns a
// closed channel when the scheduler is stopped.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.done
}

// SetDelay changes the interval used when the timer is next armed.
func (s *Scheduler) SetDelay(d time.Duration) {
	if d <= 0 {
		d = DefaultDelay
	}
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// Delay returns the current tick interval.
func (s *Scheduler) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

func (s *Scheduler) runningLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(s.Delay())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return
		}
		s.runTick()
		timer.Reset(s.Delay())
	}
}

func (s *Scheduler) runTick() {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if s.tick != nil {
		s.tick()
	}
}
