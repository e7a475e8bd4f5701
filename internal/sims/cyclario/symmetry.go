package cyclario

import (
	"math"

	"cyclario/internal/core"
)

// rotation maps every cell to its partner under a 90 degree turn about the grid
// centre. It depends only on Size.
var rotation = buildRotation()

func buildRotation() [Size][Size]core.Coord {
	var table [Size][Size]core.Coord
	mid := float64(Size-1) / 2
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			ni := int(math.Round(mid + (float64(j) - mid)))
			nj := int(math.Round(mid - (float64(i) - mid)))
			table[i][j] = core.Coord{Row: ni, Col: nj}
		}
	}
	return table
}

// RotationPartner returns the cell (i, j) lands on after a quarter turn.
func RotationPartner(i, j int) core.Coord {
	return rotation[i][j]
}

// Analyze derives the deterministic metrics of a tick from the new lattice and
// the one it was computed from. Latency, CalibrationDrift and PhaseContinuity
// are left for the caller to fill in.
func Analyze(next, prev Lattice) Metrics {
	deltaS, active, changed := 0, 0, 0
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			p := rotation[i][j]
			cur := next[i][j][0]
			if cur != next[p.Row][p.Col][0] {
				deltaS++
			}
			if cur == StateActive {
				active++
			}
			if cur != prev[i][j][0] {
				changed++
			}
		}
	}

	const cells = float64(Size * Size)
	return Metrics{
		PredictionError: float64(deltaS) / cells * 100,
		Invariance:      1 - math.Abs(0.2-float64(active)/cells),
		SyncDelta:       float64(deltaS),
		DeltaSwastika:   float64(deltaS) * 0.42,
		Reversibility:   math.Max(0, 1-float64(changed)/(cells*0.5)),
		ActiveCells:     active,
		ChangedCells:    changed,
	}
}
