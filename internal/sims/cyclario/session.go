package cyclario

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"cyclario/internal/core"
	pcore "cyclario/pkg/core"
	"cyclario/pkg/spectral"
)

// TickObserver is notified after every committed tick. Observers run while the
// session lock is held: they must be quick and must not call back into the
// session.
type TickObserver interface {
	ObserveTick(tick uint64, m Metrics)
}

// TickObserverFunc adapts a function to TickObserver.
type TickObserverFunc func(tick uint64, m Metrics)

// ObserveTick calls f.
func (f TickObserverFunc) ObserveTick(tick uint64, m Metrics) { f(tick, m) }

// Session owns the live simulation: the current and previous lattice, the
// kernel and its face, gate configs, interconnects and metrics history. All
// mutation goes through Step or the edit methods; readers get copies.
type Session struct {
	mu sync.RWMutex

	cfg      Config
	presets  []Preset
	patterns []Pattern

	kernel Kernel
	face   Face
	gates  GateConfigs
	links  Interconnects

	cur     Lattice
	prev    Lattice
	metrics Metrics
	history *History
	tick    uint64
	delay   time.Duration

	rng       *pcore.RNG
	now       func() time.Time
	logger    *slog.Logger
	observers []observerEntry
	nextObs   uint64
}

type observerEntry struct {
	id uint64
	o  TickObserver
}

// New returns a session using the default configuration.
func New() *Session {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig returns a session initialised from cfg. An unknown or invalid
// configured preset falls back to Standard; an unknown pattern falls back to
// the default lattice.
func NewWithConfig(cfg Config) *Session {
	presets := append(BuiltinPresets(), cfg.Presets...)
	s := &Session{
		cfg:      cfg,
		presets:  presets,
		patterns: BuiltinPatterns(),
		gates:    cfg.Gates,
		links:    cfg.Interconnects,
		history:  NewHistory(cfg.HistoryCap),
		delay:    cfg.Delay,
		rng:      pcore.NewRNG(cfg.Seed),
		now:      time.Now,
		logger:   slog.Default().With(slog.String("component", "session")),
	}
	if s.delay <= 0 {
		s.delay = core.DefaultDelay
	}
	s.setKernelLocked(StandardKernel)
	if cfg.Preset != "" && cfg.Preset != StandardPresetName {
		if err := s.loadPresetLocked(cfg.Preset); err != nil {
			s.logger.Warn("configured preset not applied", slog.String("preset", cfg.Preset), slog.Any("error", err))
		}
	}
	s.resetLatticeLocked()
	return s
}

// SetLogger replaces the session logger.
func (s *Session) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	s.mu.Lock()
	s.logger = l.With(slog.String("component", "session"))
	s.mu.Unlock()
}

// Observe registers an observer for committed ticks. The returned func detaches
// it; once detach returns, the observer receives no further ticks.
func (s *Session) Observe(o TickObserver) (detach func()) {
	if o == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextObs++
	id := s.nextObs
	s.observers = append(s.observers, observerEntry{id: id, o: o})
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(e observerEntry) bool { return e.id == id })
	}
}

// Name returns the simulation identifier.
func (s *Session) Name() string { return "cyclario" }

// Size returns the lattice dimensions.
func (s *Session) Size() core.Size { return core.Size{W: Size, H: Size, D: Depth} }

// Step runs one tick: evolve, analyse, commit and append to history. It is total
// over every reachable state.
func (s *Session) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()
	next := Evolve(s.cur, s.face, s.links, s.gates)
	m := Analyze(next, s.cur)
	m.Latency = s.now().Sub(start)
	m.CalibrationDrift = CalibrationDrift(start)
	m.PhaseContinuity = PhaseContinuity(s.rng)

	s.prev, s.cur = s.cur, next
	s.metrics = m
	s.history.Append(m)
	s.tick++
	for _, e := range s.observers {
		e.o.ObserveTick(s.tick, m)
	}
}

// Reset restores the configured starting lattice, clears history and metrics
// and reseeds the decorative RNG. A zero seed reuses the configured seed.
func (s *Session) Reset(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seed == 0 {
		seed = s.cfg.Seed
	}
	s.rng = pcore.NewRNG(seed)
	s.resetLatticeLocked()
}

func (s *Session) resetLatticeLocked() {
	l := DefaultLattice()
	if s.cfg.Pattern != "" {
		if p, ok := findPattern(s.patterns, s.cfg.Pattern); ok {
			l = p.Lattice()
		} else {
			s.logger.Warn("configured pattern not found", slog.String("pattern", s.cfg.Pattern))
		}
	}
	s.cur, s.prev = l, l
	s.history.Clear()
	s.metrics = IdleMetrics()
	s.tick = 0
}

// Clear zeroes the current lattice. History is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	s.cur = Lattice{}
	s.mu.Unlock()
}

// ToggleCell advances the state at (row, col, depth) by one step modulo four
// and returns the new value.
func (s *Session) ToggleCell(row, col, depth int) (State, error) {
	if !inLattice(row, col) || depth < 0 || depth >= Depth {
		return 0, fmt.Errorf("%w: cell (%d,%d,%d)", ErrOutOfRange, row, col, depth)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cur
	next[row][col][depth] = next[row][col][depth].Next()
	s.cur = next
	return next[row][col][depth], nil
}

// CycleKernelCell moves kernel cell (row, col) to the next gate, or the
// previous one when reverse is set, and returns the new gate.
func (s *Session) CycleKernelCell(row, col int, reverse bool) (Gate, error) {
	if row < 0 || row >= KernelSize || col < 0 || col >= KernelSize {
		return 0, fmt.Errorf("%w: kernel cell (%d,%d)", ErrOutOfRange, row, col)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.kernel
	if reverse {
		k[row][col] = k[row][col].Prev()
	} else {
		k[row][col] = k[row][col].Next()
	}
	s.setKernelLocked(k)
	return k[row][col], nil
}

// SetKernelCell writes gate g into kernel cell (row, col).
func (s *Session) SetKernelCell(row, col int, g Gate) error {
	if row < 0 || row >= KernelSize || col < 0 || col >= KernelSize {
		return fmt.Errorf("%w: kernel cell (%d,%d)", ErrOutOfRange, row, col)
	}
	if !g.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidGate, g)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.kernel
	k[row][col] = g
	s.setKernelLocked(k)
	return nil
}

// SetKernel replaces the whole kernel.
func (s *Session) SetKernel(k Kernel) error {
	if !k.Valid() {
		return fmt.Errorf("%w: kernel %s", ErrInvalidGate, k)
	}
	s.mu.Lock()
	s.setKernelLocked(k)
	s.mu.Unlock()
	return nil
}

// ResetKernel restores the Standard kernel.
func (s *Session) ResetKernel() {
	s.mu.Lock()
	s.setKernelLocked(StandardKernel)
	s.mu.Unlock()
}

// LoadPreset loads a named kernel preset. A preset that fails validation is
// rejected: the Standard kernel is loaded instead and the validation error is
// returned so the caller can surface it. Unknown names leave the kernel alone.
func (s *Session) LoadPreset(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadPresetLocked(name)
}

func (s *Session) loadPresetLocked(name string) error {
	p, ok := findPreset(s.presets, name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	k, err := p.Kernel()
	if err != nil {
		s.logger.Warn("preset rejected, reverting to standard",
			slog.String("preset", name), slog.Any("error", err))
		s.setKernelLocked(StandardKernel)
		return err
	}
	s.setKernelLocked(k)
	s.logger.Debug("preset loaded", slog.String("preset", name))
	return nil
}

func (s *Session) setKernelLocked(k Kernel) {
	s.kernel = k
	s.face = Mirror(k)
}

// LoadPattern replaces the lattice with a built-in pattern.
func (s *Session) LoadPattern(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := findPattern(s.patterns, id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPattern, id)
	}
	s.cur = p.Lattice()
	s.logger.Debug("pattern loaded", slog.String("pattern", id))
	return nil
}

// ApplyPattern seeds the lattice from a quadrant template and, if kernel is not
// nil, replaces the kernel first.
func (s *Session) ApplyPattern(pattern [][]uint8, kernel *Kernel) error {
	if kernel != nil && !kernel.Valid() {
		return fmt.Errorf("%w: kernel %s", ErrInvalidGate, *kernel)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if kernel != nil {
		s.setKernelLocked(*kernel)
	}
	s.cur = SeedPattern(pattern)
	return nil
}

// ApplyGenerated draws a random quadrant pattern from the session RNG, seeds
// the lattice with it and returns it.
func (s *Session) ApplyGenerated(density float64) [][]uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := GeneratePattern(s.rng, density)
	s.cur = SeedPattern(p)
	return p
}

// SetGateConfig replaces the config of gate g after validation.
func (s *Session) SetGateConfig(g Gate, cfg GateConfig) error {
	if !g.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidGate, g)
	}
	norm, err := cfg.Normalize()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.gates[g.Index()] = norm
	s.mu.Unlock()
	return nil
}

// ToggleInterconnect flips the channel at position idx on axis.
func (s *Session) ToggleInterconnect(axis Axis, idx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.links.Toggle(axis, idx)
	if err != nil {
		return err
	}
	s.links = next
	return nil
}

// SetDelay records the tick interval requested by the user. Viewers and the
// scheduler read it back through Delay.
func (s *Session) SetDelay(d time.Duration) {
	if d <= 0 {
		d = core.DefaultDelay
	}
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// Delay returns the requested tick interval.
func (s *Session) Delay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delay
}

// Lattice returns the current lattice.
func (s *Session) Lattice() Lattice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// PrevLattice returns the lattice before the last tick.
func (s *Session) PrevLattice() Lattice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prev
}

// Kernel returns the seed kernel.
func (s *Session) Kernel() Kernel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kernel
}

// Face returns the mirrored gate layout.
func (s *Session) Face() Face {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.face
}

// PresetName reports the preset matching the kernel, or "custom".
func (s *Session) PresetName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return presetName(s.presets, s.kernel)
}

// Presets lists the preset library, built-ins first.
func (s *Session) Presets() []Preset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Preset(nil), s.presets...)
}

// Patterns lists the pattern library.
func (s *Session) Patterns() []Pattern {
	return append([]Pattern(nil), s.patterns...)
}

// GateConfig returns the config of gate g.
func (s *Session) GateConfig(g Gate) GateConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gates.For(g)
}

// GateConfigs returns every gate config.
func (s *Session) GateConfigs() GateConfigs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gates
}

// Interconnects returns the channel flags.
func (s *Session) Interconnects() Interconnects {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.links
}

// Buses returns the geometry of enabled channels.
func (s *Session) Buses() []Bus {
	return s.Interconnects().Buses()
}

// Metrics returns the latest snapshot.
func (s *Session) Metrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// History returns the metrics history, oldest first.
func (s *Session) History() []Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Snapshots()
}

// HistoryCap returns the history bound.
func (s *Session) HistoryCap() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Cap()
}

// Series returns one metric across the history, oldest first.
func (s *Session) Series(key MetricKey) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Series(key)
}

// Spectrum returns the magnitude spectrum of one metric's history, padded to a
// power of two. An empty history yields an empty spectrum.
func (s *Session) Spectrum(key MetricKey) []float64 {
	return spectral.Spectrum(s.Series(key))
}

// Tick returns the number of ticks since the last reset.
func (s *Session) Tick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// Cells returns the display encoding of the current layer, row-major.
func (s *Session) Cells() []uint8 {
	return s.LayerCells(0)
}

// LayerCells returns the display encoding of layer k, row-major.
func (s *Session) LayerCells(k int) []uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uint8, Size*Size)
	if k < 0 || k >= Depth {
		return out
	}
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			out[i*Size+j] = EncodeDisplay(s.face[i][j], s.cur[i][j][k])
		}
	}
	return out
}

func init() {
	core.Register("cyclario", func(cfg map[string]string) core.Sim {
		return NewWithConfig(FromMap(cfg))
	})
}
