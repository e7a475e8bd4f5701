package cyclario

import (
	"fmt"
	"strconv"
	"strings"
)

// ChannelCount is the number of interconnect channels per axis.
const ChannelCount = 3

// Channels lists the row/column indices that can carry an interconnect.
var Channels = [ChannelCount]int{1, 4, 7}

// InterconnectWeight is the excitation each other active cell on an enabled
// channel contributes.
const InterconnectWeight = 0.5

// Axis selects rows or columns.
type Axis string

const (
	AxisRows Axis = "rows"
	AxisCols Axis = "cols"
)

// ParseAxis accepts "rows"/"row" or "cols"/"col"/"columns".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rows", "row":
		return AxisRows, nil
	case "cols", "col", "columns", "column":
		return AxisCols, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAxis, s)
}

// Interconnects flags, per channel position, whether the row or column at
// Channels[i] has all-to-all coupling.
type Interconnects struct {
	Rows [ChannelCount]bool
	Cols [ChannelCount]bool
}

// Toggle flips the channel at position idx on the given axis.
func (ic Interconnects) Toggle(axis Axis, idx int) (Interconnects, error) {
	if idx < 0 || idx >= ChannelCount {
		return ic, fmt.Errorf("%w: channel %d", ErrOutOfRange, idx)
	}
	switch axis {
	case AxisRows:
		ic.Rows[idx] = !ic.Rows[idx]
	case AxisCols:
		ic.Cols[idx] = !ic.Cols[idx]
	default:
		return ic, fmt.Errorf("%w: %q", ErrInvalidAxis, axis)
	}
	return ic, nil
}

// RowEnabled reports whether row carries an enabled channel.
func (ic Interconnects) RowEnabled(row int) bool {
	for c, idx := range Channels {
		if idx == row && ic.Rows[c] {
			return true
		}
	}
	return false
}

// ColEnabled reports whether col carries an enabled channel.
func (ic Interconnects) ColEnabled(col int) bool {
	for c, idx := range Channels {
		if idx == col && ic.Cols[c] {
			return true
		}
	}
	return false
}

// Any reports whether at least one channel is enabled.
func (ic Interconnects) Any() bool {
	return ic != Interconnects{}
}

// ChannelPosition maps a grid index to its position in Channels.
func ChannelPosition(index int) (int, bool) {
	for c, idx := range Channels {
		if idx == index {
			return c, true
		}
	}
	return 0, false
}

// contribution sums the long-range excitation reaching cell (i, j) from prev.
func (ic Interconnects) contribution(prev *Lattice, i, j int) float64 {
	exc := 0.0
	if ic.RowEnabled(i) {
		for c := 0; c < Size; c++ {
			if c != j && prev[i][c][0] == StateActive {
				exc += InterconnectWeight
			}
		}
	}
	if ic.ColEnabled(j) {
		for r := 0; r < Size; r++ {
			if r != i && prev[r][j][0] == StateActive {
				exc += InterconnectWeight
			}
		}
	}
	return exc
}

// Point is a position in cell units; (0,0) is the top-left corner of the grid.
type Point struct {
	X, Y float64
}

// Bus is the drawable segment of one enabled channel.
type Bus struct {
	Axis      Axis
	Channel   int
	Start     Point
	End       Point
	Intensity float64
}

// Buses returns one segment per enabled channel, rows first.
func (ic Interconnects) Buses() []Bus {
	var out []Bus
	for c, idx := range Channels {
		if ic.Rows[c] {
			y := float64(idx) + 0.5
			out = append(out, Bus{Axis: AxisRows, Channel: idx, Start: Point{0, y}, End: Point{Size, y}, Intensity: 1})
		}
	}
	for c, idx := range Channels {
		if ic.Cols[c] {
			x := float64(idx) + 0.5
			out = append(out, Bus{Axis: AxisCols, Channel: idx, Start: Point{x, 0}, End: Point{x, Size}, Intensity: 1})
		}
	}
	return out
}

// ParseChannelList reads a comma-separated list of channel indices (e.g. "1,7")
// into per-position flags.
func ParseChannelList(s string) ([ChannelCount]bool, error) {
	var out [ChannelCount]bool
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return out, fmt.Errorf("channel %q: %w", part, err)
		}
		pos, ok := ChannelPosition(n)
		if !ok {
			return out, fmt.Errorf("%w: channel %d", ErrOutOfRange, n)
		}
		out[pos] = true
	}
	return out, nil
}

// FormatChannelList renders enabled channel positions as grid indices, e.g.
// "1,7". It is the inverse of ParseChannelList.
func FormatChannelList(flags [ChannelCount]bool) string {
	var parts []string
	for c, on := range flags {
		if on {
			parts = append(parts, strconv.Itoa(Channels[c]))
		}
	}
	return strings.Join(parts, ",")
}
