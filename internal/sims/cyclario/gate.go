package cyclario

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how a gate turns its neighbourhood into the next state.
type Mode string

const (
	// ModeSymbolic applies the fixed per-gate rule table.
	ModeSymbolic Mode = "SYMBOLIC"
	// ModeWeighted compares a weighted neighbour sum against the threshold.
	ModeWeighted Mode = "WEIGHTED"
)

// ParseMode accepts either mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeSymbolic:
		return ModeSymbolic, nil
	case ModeWeighted:
		return ModeWeighted, nil
	}
	return "", fmt.Errorf("%w: mode %q", ErrInvalidGateConfig, s)
}

// NeighborKey names one of the eight compass neighbours on a keypad layout
// (A B C / D . F / G H I).
type NeighborKey int

const (
	NeighborA NeighborKey = iota
	NeighborB
	NeighborC
	NeighborD
	NeighborF
	NeighborG
	NeighborH
	NeighborI

	NeighborCount
)

var neighborNames = [NeighborCount]string{"A", "B", "C", "D", "F", "G", "H", "I"}

// neighborOffsets holds (row, col) deltas per key.
var neighborOffsets = [NeighborCount][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

func (k NeighborKey) String() string {
	if k < 0 || k >= NeighborCount {
		return "?"
	}
	return neighborNames[k]
}

// Offset returns the key's (row, col) delta.
func (k NeighborKey) Offset() (int, int) {
	o := neighborOffsets[k]
	return o[0], o[1]
}

// ParseNeighborKey maps "A".."I" (excluding "E") to a key.
func ParseNeighborKey(s string) (NeighborKey, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, n := range neighborNames {
		if n == s {
			return NeighborKey(i), nil
		}
	}
	return 0, fmt.Errorf("%w: weight key %q", ErrInvalidGateConfig, s)
}

// Weight bounds.
const (
	MinWeight = -5.0
	MaxWeight = 5.0
)

// Weights holds one weight per neighbour key, so the eight keys are always
// present.
type Weights [NeighborCount]float64

// Map renders the weights keyed by letter.
func (w Weights) Map() map[string]float64 {
	out := make(map[string]float64, NeighborCount)
	for k := NeighborKey(0); k < NeighborCount; k++ {
		out[k.String()] = w[k]
	}
	return out
}

// GateConfig is the per-gate evaluation setup.
type GateConfig struct {
	Mode      Mode
	Threshold float64
	Weights   Weights
}

// Normalize validates the mode and threshold and clamps weights into range.
func (c GateConfig) Normalize() (GateConfig, error) {
	if c.Mode != ModeSymbolic && c.Mode != ModeWeighted {
		return c, fmt.Errorf("%w: mode %q", ErrInvalidGateConfig, c.Mode)
	}
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return c, fmt.Errorf("%w: threshold %v", ErrInvalidGateConfig, c.Threshold)
	}
	for i, w := range c.Weights {
		if math.IsNaN(w) {
			return c, fmt.Errorf("%w: weight %s is NaN", ErrInvalidGateConfig, NeighborKey(i))
		}
		c.Weights[i] = math.Max(MinWeight, math.Min(MaxWeight, w))
	}
	return c, nil
}

// GateConfigs holds one config per gate kind, indexed by Gate.Index.
type GateConfigs [GateCount]GateConfig

// For returns the config of g.
func (gc GateConfigs) For(g Gate) GateConfig {
	if !g.Valid() {
		return GateConfig{Mode: ModeSymbolic}
	}
	return gc[g.Index()]
}

// DefaultGateConfigs returns the start-up configs. All gates start symbolic.
func DefaultGateConfigs() GateConfigs {
	var gc GateConfigs
	gc[GateXOR.Index()] = GateConfig{Mode: ModeSymbolic, Threshold: 1,
		Weights: Weights{0.5, 1, 0.5, 1, 1, 0.5, 1, 0.5}}
	gc[GateThreshold.Index()] = GateConfig{Mode: ModeSymbolic, Threshold: 2,
		Weights: Weights{0.2, 0.2, 0.2, 0.5, 0.5, 0.2, 0.2, 0.2}}
	gc[GateMemory.Index()] = GateConfig{Mode: ModeSymbolic, Threshold: 1.5,
		Weights: Weights{-0.5, 1, -0.5, 1, 1, -0.5, 1, -0.5}}
	gc[GateNot.Index()] = GateConfig{Mode: ModeSymbolic, Threshold: 0.5,
		Weights: Weights{-1, -1, -1, -1, -1, -1, -1, -1}}
	return gc
}

// Neighborhood is what a gate sees of its surroundings for one tick.
type Neighborhood struct {
	// Active flags neighbours whose current state is exactly StateActive.
	Active [NeighborCount]bool
	// Count is the number of true entries in Active.
	Count int
	// Interconnect is the long-range excitation from enabled channels.
	Interconnect float64
	// Current is the cell's own current state.
	Current State
}

// Excitation is the neighbour count plus interconnect excitation.
func (n Neighborhood) Excitation() float64 {
	return float64(n.Count) + n.Interconnect
}

// Evaluate returns the next state (ready or active) of a ready cell. The mode is
// read from cfg on every call.
func Evaluate(g Gate, cfg GateConfig, n Neighborhood) State {
	if cfg.Mode == ModeWeighted {
		return evaluateWeighted(cfg, n)
	}
	return evaluateSymbolic(g, n)
}

func evaluateSymbolic(g Gate, n Neighborhood) State {
	exc := n.Excitation()
	rounded := int(math.Round(exc))
	var on bool
	switch g {
	case GateXOR:
		on = rounded%2 != 0
	case GateThreshold:
		on = exc >= 1.5
	case GateMemory:
		on = n.Current == StateReady && rounded == 1
	case GateNot:
		on = exc < 0.5
	}
	if on {
		return StateActive
	}
	return StateReady
}

// evaluateWeighted fires when the weighted sum of active Moore neighbours
// reaches the threshold. Interconnect excitation only feeds symbolic gates.
func evaluateWeighted(cfg GateConfig, n Neighborhood) State {
	sum := 0.0
	for k, active := range n.Active {
		if active {
			sum += cfg.Weights[k]
		}
	}
	if sum >= cfg.Threshold {
		return StateActive
	}
	return StateReady
}
