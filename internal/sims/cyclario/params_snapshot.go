package cyclario

import (
	"strconv"
	"time"

	"cyclario/internal/core"
)

const (
	paramDelay        = "delay_ms"
	paramHistory      = "history"
	minDelayMS        = 1
	maxDelayMS        = 2000
	gateThresholdStem = "_threshold"
)

func gateThresholdKey(g Gate) string { return "gate_" + g.String() + gateThresholdStem }

var (
	_ core.Sim                       = (*Session)(nil)
	_ core.ParameterProvider         = (*Session)(nil)
	_ core.ParameterControlsProvider = (*Session)(nil)
	_ core.IntParameterSetter        = (*Session)(nil)
	_ core.FloatParameterSetter      = (*Session)(nil)
)

// Parameters reports the session tunables for viewers.
func (s *Session) Parameters() core.ParameterSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	gates := make([]core.Parameter, 0, GateCount*2)
	for _, g := range GateTypes {
		gc := s.gates.For(g)
		gates = append(gates,
			stringParam("gate_"+g.String()+"_mode", g.Title()+" mode", string(gc.Mode)),
			floatParam(gateThresholdKey(g), g.Title()+" threshold", gc.Threshold),
		)
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Session",
			Params: []core.Parameter{
				int64Param("seed", "Seed", s.cfg.Seed),
				intParam(paramDelay, "Tick delay (ms)", int(s.delay/time.Millisecond)),
				intParam(paramHistory, "History length", s.history.Cap()),
				stringParam("preset", "Preset", presetName(s.presets, s.kernel)),
			},
		},
		{
			Name: "Interconnects",
			Params: []core.Parameter{
				stringParam("rows", "Row channels", FormatChannelList(s.links.Rows)),
				stringParam("cols", "Column channels", FormatChannelList(s.links.Cols)),
			},
			Summary: "Enabled row and column channels",
		},
		{Name: "Gates", Params: gates},
	}}
}

// ParameterControls lists the values viewers may nudge.
func (s *Session) ParameterControls() []core.ParameterControl {
	controls := []core.ParameterControl{{
		Key: paramDelay, Label: "Tick delay (ms)", Type: core.ParamTypeInt,
		Step: 10, Min: minDelayMS, Max: maxDelayMS, HasMin: true, HasMax: true,
	}}
	for _, g := range GateTypes {
		controls = append(controls, core.ParameterControl{
			Key: gateThresholdKey(g), Label: g.Title() + " threshold", Type: core.ParamTypeFloat,
			Step: 0.1, Min: -8 * MaxWeight, Max: 8 * MaxWeight, HasMin: true, HasMax: true,
		})
	}
	return controls
}

// SetIntParameter updates an integer tunable. Values are clamped.
func (s *Session) SetIntParameter(key string, value int) bool {
	switch key {
	case paramDelay:
		if value < minDelayMS {
			value = minDelayMS
		}
		if value > maxDelayMS {
			value = maxDelayMS
		}
		s.SetDelay(time.Duration(value) * time.Millisecond)
		return true
	}
	return false
}

// SetFloatParameter updates a floating point tunable. Values are clamped.
func (s *Session) SetFloatParameter(key string, value float64) bool {
	for _, g := range GateTypes {
		if key != gateThresholdKey(g) {
			continue
		}
		ctl := core.ParameterControl{Min: -8 * MaxWeight, Max: 8 * MaxWeight, HasMin: true, HasMax: true}
		s.mu.Lock()
		defer s.mu.Unlock()
		gc := s.gates.For(g)
		gc.Threshold = ctl.Clamp(value)
		norm, err := gc.Normalize()
		if err != nil {
			return false
		}
		s.gates[g.Index()] = norm
		return true
	}
	return false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeString, Value: value}
}
