package cyclario

import "fmt"

// Preset is a named kernel as it arrives from a table or a config file. Grid is
// deliberately loose so malformed data can be detected at load time.
type Preset struct {
	Name string  `yaml:"name"`
	Grid [][]int `yaml:"grid"`
}

// StandardPresetName names the preset used as the fallback.
const StandardPresetName = "Standard"

// CustomPresetName is reported when the kernel matches no preset.
const CustomPresetName = "custom"

// BuiltinPresets returns the fixed preset library.
func BuiltinPresets() []Preset {
	return []Preset{
		{Name: StandardPresetName, Grid: StandardKernel.Grid()},
		{Name: "Cyclario Seed", Grid: [][]int{{3, 4, 5}, {4, 4, 4}, {5, 4, 6}}},
		{Name: "Chaotic Growth", Grid: [][]int{{6, 3, 6}, {3, 4, 3}, {6, 3, 6}}},
		{Name: "Oscillator", Grid: [][]int{{4, 5, 4}, {5, 3, 5}, {4, 5, 4}}},
		{Name: "Blockade", Grid: [][]int{{5, 5, 5}, {5, 6, 5}, {5, 5, 5}}},
	}
}

// Kernel validates the preset and converts it.
func (p Preset) Kernel() (Kernel, error) {
	var k Kernel
	if len(p.Grid) != KernelSize {
		return k, fmt.Errorf("%w: %q has %d rows, want %d", ErrInvalidPreset, p.Name, len(p.Grid), KernelSize)
	}
	for i, row := range p.Grid {
		if len(row) != KernelSize {
			return k, fmt.Errorf("%w: %q row %d has %d cells, want %d", ErrInvalidPreset, p.Name, i, len(row), KernelSize)
		}
		for j, v := range row {
			g := Gate(v)
			if v < 0 || v > 255 || !g.Valid() {
				return k, fmt.Errorf("%w: %q cell (%d,%d) holds %d", ErrInvalidPreset, p.Name, i, j, v)
			}
			k[i][j] = g
		}
	}
	return k, nil
}

// findPreset looks a preset up by exact name.
func findPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// presetName returns the name of the first valid preset equal to k, or
// CustomPresetName.
func presetName(presets []Preset, k Kernel) string {
	for _, p := range presets {
		pk, err := p.Kernel()
		if err == nil && pk == k {
			return p.Name
		}
	}
	return CustomPresetName
}
