package cyclario

import "cyclario/internal/core"

const (
	// Size is the edge length of the square lattice.
	Size = 9
	// Depth is the number of temporal layers kept per cell.
	Depth = 6
	// KernelSize is the edge length of the seed kernel.
	KernelSize = 3
)

// State is the value of one cell on one temporal layer.
type State uint8

const (
	StateReady State = iota
	StateActive
	StateRefractory1
	StateRefractory2

	stateCount
)

// Next cycles the state 0 -> 1 -> 2 -> 3 -> 0. Manual edits use it.
func (s State) Next() State { return (s + 1) % stateCount }

// Valid reports whether s is one of the four cell states.
func (s State) Valid() bool { return s < stateCount }

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	case StateRefractory1:
		return "refractory-1"
	case StateRefractory2:
		return "refractory-2"
	default:
		return "invalid"
	}
}

// Lattice holds every cell's temporal column. [i][j][0] is the current state,
// [i][j][1..Depth-1] the past states, most recent first. Lattices are values: a
// tick or an edit produces a new one instead of mutating a shared snapshot.
type Lattice [Size][Size][Depth]State

// MidLayer is the layer patterns are written to.
const MidLayer = Depth / 2

// DefaultLattice returns the start-up lattice: a vertical bar of three active
// cells through the centre of the mid layer.
func DefaultLattice() Lattice {
	var l Lattice
	l[3][4][MidLayer] = StateActive
	l[4][4][MidLayer] = StateActive
	l[5][4][MidLayer] = StateActive
	return l
}

// At returns the current state of cell (row, col).
func (l *Lattice) At(row, col int) State { return l[row][col][0] }

// Layer copies out one temporal layer.
func (l *Lattice) Layer(k int) [Size][Size]State {
	var out [Size][Size]State
	if k < 0 || k >= Depth {
		return out
	}
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			out[i][j] = l[i][j][k]
		}
	}
	return out
}

// ActiveCount counts active cells on the current layer.
func (l *Lattice) ActiveCount() int {
	n := 0
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			if l[i][j][0] == StateActive {
				n++
			}
		}
	}
	return n
}

// Valid reports whether every stored state is in range.
func (l *Lattice) Valid() bool {
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			for k := 0; k < Depth; k++ {
				if !l[i][j][k].Valid() {
					return false
				}
			}
		}
	}
	return true
}

func inLattice(row, col int) bool {
	return core.InBounds(core.Coord{Row: row, Col: col}, Size)
}
