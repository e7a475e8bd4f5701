package cyclario

import "cyclario/internal/core"

// Evolve computes the next lattice from prev. Active cells decay through the two
// refractory states back to ready regardless of neighbours; ready cells are
// handed to their gate. Every cell reads prev and writes the result, so the
// update is synchronous. Afterwards each cell's history shifts one layer deeper
// and the oldest layer is dropped.
func Evolve(prev Lattice, face Face, links Interconnects, gates GateConfigs) Lattice {
	var next Lattice
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			var state State
			switch prev[i][j][0] {
			case StateActive:
				state = StateRefractory1
			case StateRefractory1:
				state = StateRefractory2
			case StateRefractory2:
				state = StateReady
			default:
				g := face[i][j]
				state = Evaluate(g, gates.For(g), neighborhood(&prev, links, i, j))
			}
			next[i][j][0] = state
			copy(next[i][j][1:], prev[i][j][:Depth-1])
		}
	}
	return next
}

// neighborhood gathers the toroidal 8-neighbourhood of (i, j) plus interconnect
// excitation.
func neighborhood(prev *Lattice, links Interconnects, i, j int) Neighborhood {
	n := Neighborhood{Current: prev[i][j][0]}
	for k := NeighborKey(0); k < NeighborCount; k++ {
		dr, dc := k.Offset()
		r := core.Wrap(i+dr, Size)
		c := core.Wrap(j+dc, Size)
		if prev[r][c][0] == StateActive {
			n.Active[k] = true
			n.Count++
		}
	}
	n.Interconnect = links.contribution(prev, i, j)
	return n
}
