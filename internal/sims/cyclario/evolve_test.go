package cyclario

import (
	"errors"
	"testing"
)

func uniformFace(g Gate) Face {
	return Mirror(Kernel{{g, g, g}, {g, g, g}, {g, g, g}})
}

func TestEvolveRefractoryClock(t *testing.T) {
	var l Lattice
	l[4][4][0] = StateActive
	face := uniformFace(GateThreshold)
	gates := DefaultGateConfigs()

	want := []State{StateRefractory1, StateRefractory2, StateReady}
	for step, w := range want {
		l = Evolve(l, face, Interconnects{}, gates)
		if got := l[4][4][0]; got != w {
			t.Fatalf("step %d: state = %v, want %v", step+1, got, w)
		}
	}
}

func TestEvolveShiftsHistory(t *testing.T) {
	l := DefaultLattice()
	l[0][0][0] = StateActive
	next := Evolve(l, uniformFace(GateThreshold), Interconnects{}, DefaultGateConfigs())

	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			for k := 1; k < Depth; k++ {
				if next[i][j][k] != l[i][j][k-1] {
					t.Fatalf("cell (%d,%d) layer %d = %v, want %v", i, j, k, next[i][j][k], l[i][j][k-1])
				}
			}
		}
	}
	if next[4][4][MidLayer+1] != StateActive {
		t.Fatal("mid layer should move one layer deeper")
	}
}

func TestEvolveWrapsToroidally(t *testing.T) {
	var l Lattice
	l[0][0][0] = StateActive
	next := Evolve(l, uniformFace(GateXOR), Interconnects{}, DefaultGateConfigs())

	for _, c := range [][2]int{{8, 8}, {8, 0}, {8, 1}, {0, 8}, {0, 1}, {1, 8}, {1, 0}, {1, 1}} {
		if next[c[0]][c[1]][0] != StateActive {
			t.Fatalf("neighbour (%d,%d) across the edge should fire, got %v", c[0], c[1], next[c[0]][c[1]][0])
		}
	}
	if got := next.ActiveCount(); got != 8 {
		t.Fatalf("expected 8 active cells, got %d", got)
	}
	if next[0][0][0] != StateRefractory1 {
		t.Fatalf("source cell should be refractory, got %v", next[0][0][0])
	}
}

func TestEvolveNotFiresInVacuum(t *testing.T) {
	next := Evolve(Lattice{}, uniformFace(GateNot), Interconnects{}, DefaultGateConfigs())
	if got := next.ActiveCount(); got != Size*Size {
		t.Fatalf("expected every not gate to fire on an empty lattice, got %d", got)
	}
}

func TestEvolveInterconnectExcitation(t *testing.T) {
	var l Lattice
	l[4][0][0] = StateActive
	l[4][2][0] = StateActive
	l[4][6][0] = StateActive
	face := uniformFace(GateThreshold)
	gates := DefaultGateConfigs()

	next := Evolve(l, face, Interconnects{}, gates)
	if next[4][4][0] != StateReady {
		t.Fatalf("without a channel (4,4) has no input, got %v", next[4][4][0])
	}

	links, err := Interconnects{}.Toggle(AxisRows, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	next = Evolve(l, face, links, gates)
	if next[4][4][0] != StateActive {
		t.Fatalf("three active cells on row 4 should excite (4,4) by 1.5, got %v", next[4][4][0])
	}
	if c := links.contribution(&l, 4, 0); c != 1.0 {
		t.Fatalf("contribution must exclude the cell itself, got %v", c)
	}
}

func TestEvaluateSymbolicTable(t *testing.T) {
	cases := []struct {
		gate  Gate
		count int
		ic    float64
		want  State
	}{
		{GateXOR, 1, 0, StateActive},
		{GateXOR, 2, 0, StateReady},
		{GateXOR, 0, 0.5, StateActive},
		{GateThreshold, 1, 0, StateReady},
		{GateThreshold, 2, 0, StateActive},
		{GateThreshold, 1, 0.5, StateActive},
		{GateMemory, 1, 0, StateActive},
		{GateMemory, 2, 0, StateReady},
		{GateNot, 0, 0, StateActive},
		{GateNot, 0, 0.5, StateReady},
		{GateNot, 1, 0, StateReady},
	}
	for _, tc := range cases {
		n := Neighborhood{Count: tc.count, Interconnect: tc.ic}
		for k := 0; k < tc.count; k++ {
			n.Active[k] = true
		}
		if got := Evaluate(tc.gate, GateConfig{Mode: ModeSymbolic}, n); got != tc.want {
			t.Fatalf("%v with %d neighbours and %.1f interconnect = %v, want %v", tc.gate, tc.count, tc.ic, got, tc.want)
		}
	}
}

func TestEvaluateWeighted(t *testing.T) {
	cfg := DefaultGateConfigs().For(GateXOR)
	cfg.Mode = ModeWeighted
	n := Neighborhood{Count: 1}
	n.Active[NeighborB] = true

	if got := Evaluate(GateXOR, cfg, n); got != StateActive {
		t.Fatalf("weight 1 against threshold 1 should fire, got %v", got)
	}
	cfg.Threshold = 1.5
	if got := Evaluate(GateXOR, cfg, n); got != StateReady {
		t.Fatalf("weight 1 against threshold 1.5 should not fire, got %v", got)
	}
	n.Interconnect = 0.5
	if got := Evaluate(GateXOR, cfg, n); got != StateReady {
		t.Fatalf("interconnect must not add to the weighted sum, got %v", got)
	}
}

func TestEvaluateWeightedIgnoresInterconnectInVacuum(t *testing.T) {
	cfg := GateConfig{Mode: ModeWeighted, Threshold: 0.5}
	for k := range cfg.Weights {
		cfg.Weights[k] = 1
	}
	n := Neighborhood{Interconnect: 0.5}
	if got := Evaluate(GateThreshold, cfg, n); got != StateReady {
		t.Fatalf("no active neighbours gives a zero sum, got %v", got)
	}
	n.Active[NeighborA] = true
	n.Count = 1
	if got := Evaluate(GateThreshold, cfg, n); got != StateActive {
		t.Fatalf("one active neighbour of weight 1 should clear 0.5, got %v", got)
	}
}

func TestGateConfigNormalize(t *testing.T) {
	cfg := GateConfig{Mode: ModeWeighted, Threshold: 1, Weights: Weights{9, -9}}
	norm, err := cfg.Normalize()
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if norm.Weights[NeighborA] != MaxWeight || norm.Weights[NeighborB] != MinWeight {
		t.Fatalf("weights not clamped: %v", norm.Weights)
	}
	if _, err := (GateConfig{Mode: "FUZZY"}).Normalize(); !errors.Is(err, ErrInvalidGateConfig) {
		t.Fatalf("unknown mode err = %v", err)
	}
}

func TestInterconnectToggleAndBuses(t *testing.T) {
	var ic Interconnects
	if _, err := ic.Toggle(AxisRows, ChannelCount); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("out of range toggle err = %v", err)
	}
	if _, err := ic.Toggle(Axis("diag"), 0); !errors.Is(err, ErrInvalidAxis) {
		t.Fatalf("bad axis err = %v", err)
	}

	ic, _ = ic.Toggle(AxisCols, 2)
	ic, _ = ic.Toggle(AxisRows, 0)
	if !ic.RowEnabled(1) || !ic.ColEnabled(7) || ic.RowEnabled(4) {
		t.Fatalf("unexpected channel flags %+v", ic)
	}

	buses := ic.Buses()
	if len(buses) != 2 {
		t.Fatalf("expected 2 buses, got %d", len(buses))
	}
	if b := buses[0]; b.Axis != AxisRows || b.Start != (Point{0, 1.5}) || b.End != (Point{Size, 1.5}) {
		t.Fatalf("row bus = %+v", b)
	}
	if b := buses[1]; b.Axis != AxisCols || b.Start != (Point{7.5, 0}) || b.Intensity != 1 {
		t.Fatalf("col bus = %+v", b)
	}

	ic, _ = ic.Toggle(AxisRows, 0)
	if ic.RowEnabled(1) {
		t.Fatal("second toggle should disable the channel")
	}
}
