package cyclario

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromMap(t *testing.T) {
	c := FromMap(map[string]string{
		"seed":     "7",
		"delay_ms": "50",
		"history":  "16",
		"preset":   "Oscillator",
		"pattern":  "default-3",
		"rows":     "1,7",
		"cols":     "4",
	})
	if c.Seed != 7 || c.Delay != 50*time.Millisecond || c.HistoryCap != 16 {
		t.Fatalf("scalars not parsed: %+v", c)
	}
	if c.Preset != "Oscillator" || c.Pattern != "default-3" {
		t.Fatalf("names not parsed: %q %q", c.Preset, c.Pattern)
	}
	if c.Interconnects.Rows != [ChannelCount]bool{true, false, true} {
		t.Fatalf("rows = %v", c.Interconnects.Rows)
	}
	if c.Interconnects.Cols != [ChannelCount]bool{false, true, false} {
		t.Fatalf("cols = %v", c.Interconnects.Cols)
	}
	if got := FormatChannelList(c.Interconnects.Rows); got != "1,7" {
		t.Fatalf("FormatChannelList = %q, want 1,7", got)
	}

	bad := FromMap(map[string]string{"delay_ms": "-3", "history": "x", "rows": "2"})
	def := DefaultConfig()
	if bad.Delay != def.Delay || bad.HistoryCap != def.HistoryCap || bad.Interconnects.Any() {
		t.Fatalf("invalid values must keep defaults: %+v", bad)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cyclario.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
seed: 11
delay_ms: 40
preset: Tri
rows: [4]
gates:
  xor:
    mode: weighted
    threshold: 2
    weights:
      B: 9
      d: -0.5
presets:
  - name: Tri
    grid: [[3, 4, 5], [4, 5, 6], [5, 6, 3]]
`)
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Seed != 11 || c.Delay != 40*time.Millisecond {
		t.Fatalf("scalars = %+v", c)
	}
	if !c.Interconnects.RowEnabled(4) || c.Interconnects.RowEnabled(1) {
		t.Fatalf("rows = %v", c.Interconnects.Rows)
	}
	xor := c.Gates.For(GateXOR)
	if xor.Mode != ModeWeighted || xor.Threshold != 2 {
		t.Fatalf("xor config = %+v", xor)
	}
	if xor.Weights[NeighborB] != MaxWeight || xor.Weights[NeighborD] != -0.5 {
		t.Fatalf("weights = %v", xor.Weights)
	}
	if xor.Weights[NeighborA] != DefaultGateConfigs().For(GateXOR).Weights[NeighborA] {
		t.Fatal("unlisted weights keep their defaults")
	}
	if c.Gates.For(GateNot) != DefaultGateConfigs().For(GateNot) {
		t.Fatal("unlisted gates keep their defaults")
	}

	s := newQuietSession(t, c)
	if s.PresetName() != "Tri" {
		t.Fatalf("user preset not applied, got %q", s.PresetName())
	}
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"preset":  {"presets:\n  - name: small\n    grid: [[3, 3], [3, 3]]\n", ErrInvalidPreset},
		"gate":    {"gates:\n  nand:\n    mode: symbolic\n", ErrInvalidGate},
		"mode":    {"gates:\n  not:\n    mode: fuzzy\n", ErrInvalidGateConfig},
		"weight":  {"gates:\n  not:\n    weights:\n      E: 1\n", ErrInvalidGateConfig},
		"channel": {"cols: [2]\n", ErrOutOfRange},
	}
	for name, tc := range cases {
		if _, err := LoadConfig(writeConfig(t, tc.body)); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", name, err, tc.want)
		}
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}
}
