package cyclario

import "errors"

var (
	// ErrOutOfRange reports a coordinate, depth or channel outside the grid.
	ErrOutOfRange = errors.New("out of range")
	// ErrInvalidPreset reports preset data that is not a 3x3 grid of gate codes.
	ErrInvalidPreset = errors.New("invalid preset")
	// ErrUnknownPreset reports a preset name missing from the library.
	ErrUnknownPreset = errors.New("unknown preset")
	// ErrUnknownPattern reports a pattern id missing from the library.
	ErrUnknownPattern = errors.New("unknown pattern")
	// ErrInvalidGate reports a code outside the four gate kinds.
	ErrInvalidGate = errors.New("invalid gate")
	// ErrInvalidGateConfig reports an unusable mode, threshold or weight key.
	ErrInvalidGateConfig = errors.New("invalid gate config")
	// ErrInvalidAxis reports an interconnect axis other than rows or cols.
	ErrInvalidAxis = errors.New("invalid interconnect axis")
)
