package cyclario

import "image/color"

const (
	displayStateMask = 0x03
	displayGateShift = 2
	displayValues    = GateCount << displayGateShift
)

var (
	activeColors     = [GateCount]color.RGBA{{0x00, 0xaa, 0xff, 0xff}, {0x99, 0x33, 0xff, 0xff}, {0x00, 0xff, 0xcc, 0xff}, {0xff, 0x55, 0x00, 0xff}}
	refractoryColors = [GateCount]color.RGBA{{0x00, 0x55, 0x80, 0xff}, {0x4d, 0x1a, 0x80, 0xff}, {0x00, 0x80, 0x66, 0xff}, {0x80, 0x2b, 0x00, 0xff}}
	inactiveColors   = [GateCount]color.RGBA{{0x00, 0x22, 0x33, 0xff}, {0x26, 0x0d, 0x40, 0xff}, {0x00, 0x33, 0x29, 0xff}, {0x40, 0x15, 0x00, 0xff}}
)

var cyclarioPalette = buildPalette()

// EncodeDisplay packs a gate and a state into one display value: the gate index
// in the high bits and the state in the low two.
func EncodeDisplay(g Gate, s State) uint8 {
	idx := 0
	if g.Valid() {
		idx = g.Index()
	}
	return uint8(idx<<displayGateShift) | uint8(s&displayStateMask)
}

// DecodeDisplay reverses EncodeDisplay.
func DecodeDisplay(v uint8) (Gate, State) {
	idx := int(v>>displayGateShift) % GateCount
	return GateTypes[idx], State(v & displayStateMask)
}

// Palette exposes the colours used for rendering display values.
func (s *Session) Palette() []color.RGBA {
	return cyclarioPalette
}

// Palette returns the display palette without a session.
func Palette() []color.RGBA { return cyclarioPalette }

// GateColor returns the active colour of g.
func GateColor(g Gate) color.RGBA {
	if !g.Valid() {
		return color.RGBA{0x33, 0x41, 0x55, 0xff}
	}
	return activeColors[g.Index()]
}

func buildPalette() []color.RGBA {
	p := make([]color.RGBA, displayValues)
	for i := range p {
		g, s := DecodeDisplay(uint8(i))
		gi := g.Index()
		switch s {
		case StateActive:
			p[i] = activeColors[gi]
		case StateRefractory1, StateRefractory2:
			p[i] = refractoryColors[gi]
		default:
			p[i] = inactiveColors[gi]
		}
	}
	return p
}

// Activity weighs how recently cell (row, col) was active across the depth
// history: layer k contributes 1-k/Depth when it holds StateActive. Viewers use
// it for the fading trail.
func (l *Lattice) Activity(row, col int) float64 {
	var a float64
	for k := 0; k < Depth; k++ {
		if l[row][col][k] == StateActive {
			a += 1 - float64(k)/Depth
		}
	}
	return a
}
