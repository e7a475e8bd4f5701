package cyclario

import (
	"fmt"
	"strconv"
	"strings"
)

// Gate identifies one of the four per-cell update rules. The numeric codes are
// opaque identifiers carried over from the preset tables, not an ordering.
type Gate uint8

const (
	GateXOR       Gate = 3
	GateThreshold Gate = 4
	GateMemory    Gate = 5
	GateNot       Gate = 6
)

// GateCount is the number of gate kinds.
const GateCount = 4

// GateTypes lists the gate kinds in cycling order.
var GateTypes = [GateCount]Gate{GateXOR, GateThreshold, GateMemory, GateNot}

// Valid reports whether g is one of the four gate codes.
func (g Gate) Valid() bool { return g >= GateXOR && g <= GateNot }

// Index maps a valid gate to 0..GateCount-1.
func (g Gate) Index() int { return int(g - GateXOR) }

// Next returns the following gate in cycling order, wrapping around.
func (g Gate) Next() Gate { return GateTypes[(g.Index()+1)%GateCount] }

// Prev returns the preceding gate in cycling order, wrapping around.
func (g Gate) Prev() Gate { return GateTypes[(g.Index()+GateCount-1)%GateCount] }

func (g Gate) String() string {
	switch g {
	case GateXOR:
		return "xor"
	case GateThreshold:
		return "threshold"
	case GateMemory:
		return "memory"
	case GateNot:
		return "not"
	default:
		return "gate(" + strconv.Itoa(int(g)) + ")"
	}
}

// Title is the display name shown next to the gate.
func (g Gate) Title() string {
	switch g {
	case GateXOR:
		return "XOR (Phase)"
	case GateThreshold:
		return "THRESHOLD (Amp)"
	case GateMemory:
		return "MEMORY (Latch)"
	case GateNot:
		return "NOT (Invert)"
	default:
		return "UNKNOWN"
	}
}

// Description summarises the gate's symbolic rule.
//
// The memory gate advertises set/reset/hold latch behaviour, but evaluation only
// ever reaches it from the ready state, so only the "set on one" branch is
// observable.
func (g Gate) Description() string {
	switch g {
	case GateXOR:
		return "XOR: phase interference logic. Active on odd parity sums."
	case GateThreshold:
		return "THRESHOLD: amplitude filter. Active if signal intensity >= 2."
	case GateMemory:
		return "MEMORY: optical latch. Sets on 1, resets on >1, holds otherwise."
	case GateNot:
		return "NOT: signal inverter. Active only in vacuum state (0)."
	default:
		return ""
	}
}

// ParseGate accepts a gate name ("xor", "threshold", "memory", "not") or its
// numeric code.
func ParseGate(s string) (Gate, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, g := range GateTypes {
		if s == g.String() {
			return g, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < 256 && Gate(n).Valid() {
		return Gate(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGate, s)
}

// Kernel is the 3x3 seed template of gate codes.
type Kernel [KernelSize][KernelSize]Gate

// StandardKernel is the default seed.
var StandardKernel = Kernel{
	{GateXOR, GateThreshold, GateXOR},
	{GateMemory, GateNot, GateMemory},
	{GateXOR, GateThreshold, GateXOR},
}

// Valid reports whether every kernel cell holds a gate code.
func (k Kernel) Valid() bool {
	for _, row := range k {
		for _, g := range row {
			if !g.Valid() {
				return false
			}
		}
	}
	return true
}

// Grid returns the kernel as a plain integer matrix.
func (k Kernel) Grid() [][]int {
	out := make([][]int, KernelSize)
	for i := range k {
		out[i] = make([]int, KernelSize)
		for j := range k[i] {
			out[i][j] = int(k[i][j])
		}
	}
	return out
}

func (k Kernel) String() string {
	var b strings.Builder
	for i, row := range k {
		if i > 0 {
			b.WriteByte('/')
		}
		for j, g := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(int(g)))
		}
	}
	return b.String()
}

// Face is the full-grid gate layout derived from a kernel.
type Face [Size][Size]Gate

// Mirror tiles the kernel across the grid, reflecting every odd-numbered block
// along each axis so neighbouring blocks are mirror images across their shared
// edge.
func Mirror(k Kernel) Face {
	var f Face
	for i := 0; i < Size; i++ {
		for j := 0; j < Size; j++ {
			r, c := i%KernelSize, j%KernelSize
			if (i/KernelSize)%2 == 1 {
				r = KernelSize - 1 - r
			}
			if (j/KernelSize)%2 == 1 {
				c = KernelSize - 1 - c
			}
			f[i][j] = k[r][c]
		}
	}
	return f
}
