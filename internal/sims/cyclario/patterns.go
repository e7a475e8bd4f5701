package cyclario

import (
	"fmt"

	pcore "cyclario/pkg/core"
)

// Pattern is a named quadrant template. Non-zero entries mark active cells.
type Pattern struct {
	ID   string    `yaml:"id"`
	Name string    `yaml:"name"`
	Data [][]uint8 `yaml:"data"`
}

// patternOffset is where a quadrant template's origin lands in the lattice.
const patternOffset = 1

// quadrantLimit bounds the source rows and columns that are mirrored.
const quadrantLimit = (Size + 1) / 2

// BuiltinPatterns returns the fixed pattern library. IDs are stable.
func BuiltinPatterns() []Pattern {
	defs := []struct {
		name string
		data [][]uint8
	}{
		{"Quad-Glider", [][]uint8{{0, 1, 0}, {0, 0, 1}, {1, 1, 1}}},
		{"Corner Blocks", [][]uint8{{1, 1}, {1, 1}}},
		{"Quad Cross", [][]uint8{{0, 1, 0}, {1, 1, 1}, {0, 1, 0}}},
		{"Pinwheel", [][]uint8{{0, 1, 1}, {1, 1, 0}, {0, 0, 0}}},
		{"Penta-Replicator", [][]uint8{{0, 1, 1}, {1, 1, 0}, {0, 1, 0}}},
		{"Diagonal Line", [][]uint8{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}},
		{"Agitator", [][]uint8{{1, 1, 0}, {1, 0, 1}, {0, 1, 0}}},
	}
	out := make([]Pattern, len(defs))
	for i, d := range defs {
		out[i] = Pattern{ID: fmt.Sprintf("default-%d", i), Name: d.name, Data: d.data}
	}
	return out
}

// SeedPattern builds a fresh lattice from a quadrant template. Each active cell
// is offset by (1,1) and, if it stays inside the top-left quadrant, written with
// its horizontal, vertical and diagonal mirror images onto the mid layer. Cells
// that leave the quadrant are dropped. Rows may be ragged.
func SeedPattern(pattern [][]uint8) Lattice {
	var l Lattice
	set := func(r, c int) {
		if inLattice(r, c) {
			l[r][c][MidLayer] = StateActive
		}
	}
	for i, row := range pattern {
		for j, v := range row {
			if v == 0 {
				continue
			}
			r, c := patternOffset+i, patternOffset+j
			if r >= quadrantLimit || c >= quadrantLimit {
				continue
			}
			set(r, c)
			set(r, Size-1-c)
			set(Size-1-r, c)
			set(Size-1-r, Size-1-c)
		}
	}
	return l
}

// Lattice seeds the pattern.
func (p Pattern) Lattice() Lattice { return SeedPattern(p.Data) }

// GeneratePattern draws a 3x3 quadrant template where each cell is active with
// probability density. An all-empty draw gets its centre switched on so the
// result always seeds something.
func GeneratePattern(rng *pcore.RNG, density float64) [][]uint8 {
	buf := make([]uint8, KernelSize*KernelSize)
	pcore.FillBinary(rng, buf, density)
	empty := true
	for _, v := range buf {
		if v != 0 {
			empty = false
			break
		}
	}
	if empty {
		buf[len(buf)/2] = 1
	}
	out := make([][]uint8, KernelSize)
	for i := range out {
		out[i] = buf[i*KernelSize : (i+1)*KernelSize]
	}
	return out
}

func findPattern(patterns []Pattern, id string) (Pattern, bool) {
	for _, p := range patterns {
		if p.ID == id {
			return p, true
		}
	}
	return Pattern{}, false
}
