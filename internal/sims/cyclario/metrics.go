package cyclario

import (
	"math"
	"time"

	pcore "cyclario/pkg/core"

	"gonum.org/v1/gonum/floats"
)

// Metrics is the telemetry of one tick.
type Metrics struct {
	PredictionError  float64       `json:"prediction_error"`
	Latency          time.Duration `json:"latency"`
	Invariance       float64       `json:"invariance"`
	SyncDelta        float64       `json:"sync_delta"`
	DeltaSwastika    float64       `json:"delta_swastika"`
	Reversibility    float64       `json:"reversibility"`
	CalibrationDrift float64       `json:"calibration_drift"`
	PhaseContinuity  float64       `json:"phase_continuity"`
	ActiveCells      int           `json:"active_cells"`
	ChangedCells     int           `json:"changed_cells"`
}

// IdleMetrics is the reading shown before the first tick.
func IdleMetrics() Metrics {
	return Metrics{Invariance: 1, Reversibility: 1, PhaseContinuity: 1}
}

// MetricKey names a scalar field of Metrics.
type MetricKey string

const (
	MetricPredictionError  MetricKey = "prediction_error"
	MetricLatency          MetricKey = "latency"
	MetricInvariance       MetricKey = "invariance"
	MetricSyncDelta        MetricKey = "sync_delta"
	MetricDeltaSwastika    MetricKey = "delta_swastika"
	MetricReversibility    MetricKey = "reversibility"
	MetricCalibrationDrift MetricKey = "calibration_drift"
	MetricPhaseContinuity  MetricKey = "phase_continuity"
)

// MetricKeys lists every selectable metric.
var MetricKeys = []MetricKey{
	MetricPredictionError,
	MetricLatency,
	MetricInvariance,
	MetricSyncDelta,
	MetricDeltaSwastika,
	MetricReversibility,
	MetricCalibrationDrift,
	MetricPhaseContinuity,
}

// AudioSourceMetrics are the metrics offered as sonification sources.
var AudioSourceMetrics = []MetricKey{
	MetricDeltaSwastika,
	MetricReversibility,
	MetricInvariance,
	MetricPhaseContinuity,
}

// Value returns the named metric. Latency is reported in milliseconds.
func (m Metrics) Value(key MetricKey) (float64, bool) {
	switch key {
	case MetricPredictionError:
		return m.PredictionError, true
	case MetricLatency:
		return float64(m.Latency) / float64(time.Millisecond), true
	case MetricInvariance:
		return m.Invariance, true
	case MetricSyncDelta:
		return m.SyncDelta, true
	case MetricDeltaSwastika:
		return m.DeltaSwastika, true
	case MetricReversibility:
		return m.Reversibility, true
	case MetricCalibrationDrift:
		return m.CalibrationDrift, true
	case MetricPhaseContinuity:
		return m.PhaseContinuity, true
	}
	return 0, false
}

// Decorative telemetry. Neither value depends on the lattice.

// CalibrationDrift is a slow sine of wall-clock time in [-0.04, 0.06].
func CalibrationDrift(t time.Time) float64 {
	secs := float64(t.UnixMilli()) / 5000
	return math.Sin(secs)*0.05 + 0.01
}

// PhaseContinuity is a jittered reading in [0.99, 1.0).
func PhaseContinuity(rng *pcore.RNG) float64 {
	return 0.99 + rng.Float64()*0.01
}

// DefaultHistoryCap is the number of snapshots kept by default.
const DefaultHistoryCap = 128

// History is a bounded FIFO of metrics. Appending to a full history evicts the
// oldest entry.
type History struct {
	buf   []Metrics
	start int
	n     int
}

// NewHistory allocates a history holding up to capacity snapshots.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &History{buf: make([]Metrics, capacity)}
}

// Cap returns the maximum length.
func (h *History) Cap() int { return len(h.buf) }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return h.n }

// Append adds m as the newest entry.
func (h *History) Append(m Metrics) {
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = m
		h.n++
		return
	}
	h.buf[h.start] = m
	h.start = (h.start + 1) % len(h.buf)
}

// At returns the i-th snapshot, oldest first.
func (h *History) At(i int) Metrics {
	return h.buf[(h.start+i)%len(h.buf)]
}

// Latest returns the newest snapshot.
func (h *History) Latest() (Metrics, bool) {
	if h.n == 0 {
		return Metrics{}, false
	}
	return h.At(h.n - 1), true
}

// Snapshots copies the history out, oldest first.
func (h *History) Snapshots() []Metrics {
	out := make([]Metrics, h.n)
	for i := range out {
		out[i] = h.At(i)
	}
	return out
}

// Series extracts one metric across the history, oldest first.
func (h *History) Series(key MetricKey) []float64 {
	out := make([]float64, h.n)
	for i := range out {
		out[i], _ = h.At(i).Value(key)
	}
	return out
}

// Clear empties the history.
func (h *History) Clear() {
	h.start, h.n = 0, 0
}

// minSpan is the smallest range NormalizeSeries divides by.
const minSpan = 0.001

// NormalizeSeries rescales values into [0, 1] for sparkline display. Non-finite
// samples read as zero and a collapsed range uses a span of 1, so the output is
// always finite.
func NormalizeSeries(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	clean := make([]float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean[i] = v
		}
	}
	lo := floats.Min(clean)
	hi := math.Max(floats.Max(clean), minSpan)
	span := hi - lo
	if span < minSpan {
		span = 1
	}
	for i, v := range clean {
		out[i] = (v - lo) / span
	}
	return out
}
