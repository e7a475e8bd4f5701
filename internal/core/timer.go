package core

import "time"

// FixedStep paces ticks inside a frame loop (the GUI's Update callback) so the
// simulation advances once per configured delay regardless of frame rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep that fires once per delay.
func NewFixedStep(delay time.Duration) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetDelay(delay)
	fs.accumulator = fs.step
	return fs
}

// SetDelay changes the tick interval. Non-positive delays fall back to the
// default tick delay.
func (f *FixedStep) SetDelay(delay time.Duration) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	f.step = delay
}

// Delay reports the current tick interval.
func (f *FixedStep) Delay() time.Duration { return f.step }

// Reset drops accumulated time so the next tick waits a full interval.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}

// ShouldStep reports whether the simulation should advance by one tick. At most
// one tick is reported per call, so a slow frame never triggers a burst.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		if f.accumulator > f.step {
			f.accumulator = f.step
		}
		return true
	}
	return false
}
