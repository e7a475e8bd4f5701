package cyclario

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"cyclario/internal/core"
)

// Config controls a Session.
type Config struct {
	Seed       int64
	Delay      time.Duration
	HistoryCap int

	// Preset names the kernel loaded at start-up; empty means Standard.
	Preset string
	// Pattern names the lattice seeded on reset; empty means the default lattice.
	Pattern string

	Interconnects Interconnects
	Gates         GateConfigs

	// Presets are user presets appended to the built-in library.
	Presets []Preset
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Seed:       1337,
		Delay:      core.DefaultDelay,
		HistoryCap: DefaultHistoryCap,
		Preset:     StandardPresetName,
		Gates:      DefaultGateConfigs(),
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["delay_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Delay = time.Duration(parsed) * time.Millisecond
		}
	}
	if v, ok := cfg["history"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.HistoryCap = parsed
		}
	}
	if v, ok := cfg["preset"]; ok && v != "" {
		c.Preset = v
	}
	if v, ok := cfg["pattern"]; ok {
		c.Pattern = v
	}
	if v, ok := cfg["rows"]; ok {
		if parsed, err := ParseChannelList(v); err == nil {
			c.Interconnects.Rows = parsed
		}
	}
	if v, ok := cfg["cols"]; ok {
		if parsed, err := ParseChannelList(v); err == nil {
			c.Interconnects.Cols = parsed
		}
	}
	return c
}

type fileConfig struct {
	Seed    *int64                    `yaml:"seed"`
	DelayMS *int                      `yaml:"delay_ms"`
	History *int                      `yaml:"history"`
	Preset  string                    `yaml:"preset"`
	Pattern string                    `yaml:"pattern"`
	Rows    []int                     `yaml:"rows"`
	Cols    []int                     `yaml:"cols"`
	Gates   map[string]fileGateConfig `yaml:"gates"`
	Presets []Preset                  `yaml:"presets"`
}

type fileGateConfig struct {
	Mode      string             `yaml:"mode"`
	Threshold *float64           `yaml:"threshold"`
	Weights   map[string]float64 `yaml:"weights"`
}

// LoadConfig reads a YAML file over the defaults. Gate configs and user presets
// are validated before they are accepted.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := fc.apply(&c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (fc fileConfig) apply(c *Config) error {
	if fc.Seed != nil {
		c.Seed = *fc.Seed
	}
	if fc.DelayMS != nil && *fc.DelayMS > 0 {
		c.Delay = time.Duration(*fc.DelayMS) * time.Millisecond
	}
	if fc.History != nil && *fc.History > 0 {
		c.HistoryCap = *fc.History
	}
	if fc.Preset != "" {
		c.Preset = fc.Preset
	}
	c.Pattern = fc.Pattern

	rows, err := channelFlags(fc.Rows)
	if err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	cols, err := channelFlags(fc.Cols)
	if err != nil {
		return fmt.Errorf("cols: %w", err)
	}
	c.Interconnects = Interconnects{Rows: rows, Cols: cols}

	for name, fg := range fc.Gates {
		g, err := ParseGate(name)
		if err != nil {
			return fmt.Errorf("gates: %w", err)
		}
		gc, err := fg.merge(c.Gates.For(g))
		if err != nil {
			return fmt.Errorf("gates.%s: %w", name, err)
		}
		c.Gates[g.Index()] = gc
	}

	for _, p := range fc.Presets {
		if p.Name == "" {
			return fmt.Errorf("%w: preset without a name", ErrInvalidPreset)
		}
		if _, err := p.Kernel(); err != nil {
			return err
		}
		c.Presets = append(c.Presets, p)
	}
	return nil
}

func (fg fileGateConfig) merge(base GateConfig) (GateConfig, error) {
	if fg.Mode != "" {
		m, err := ParseMode(fg.Mode)
		if err != nil {
			return base, err
		}
		base.Mode = m
	}
	if fg.Threshold != nil {
		base.Threshold = *fg.Threshold
	}
	for key, w := range fg.Weights {
		k, err := ParseNeighborKey(key)
		if err != nil {
			return base, err
		}
		base.Weights[k] = w
	}
	return base.Normalize()
}

func channelFlags(channels []int) ([ChannelCount]bool, error) {
	var out [ChannelCount]bool
	for _, ch := range channels {
		pos, ok := ChannelPosition(ch)
		if !ok {
			return out, fmt.Errorf("%w: channel %d", ErrOutOfRange, ch)
		}
		out[pos] = true
	}
	return out, nil
}
