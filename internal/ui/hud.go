//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"cyclario/internal/core"
	"cyclario/internal/sims/cyclario"
	"cyclario/pkg/spectral"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelBg    = color.RGBA{R: 2, G: 6, B: 23, A: 255}
	textColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor   = color.RGBA{R: 148, G: 163, B: 184, A: 255}
	accent     = color.RGBA{R: 0, G: 240, B: 255, A: 255}
	spectrumFg = color.RGBA{R: 255, G: 85, B: 0, A: 255}
)

// HUD renders the metrics and parameter panel to the right of the lattice.
type HUD struct {
	sess   *cyclario.Session
	width  int
	height int
	panel  *ebiten.Image
	pixel  *ebiten.Image

	metric       int
	controls     []hudControl
	panelOffsetX int
}

type hudControl struct {
	ctrl     core.ParameterControl
	value    float64
	hasValue bool
	minus    image.Rectangle
	plus     image.Rectangle
}

// NewHUD builds a HUD of the given size for sess.
func NewHUD(sess *cyclario.Session, width, height int) *HUD {
	h := &HUD{sess: sess, width: max(width, 0), height: max(height, 0)}
	if h.width == 0 || h.height == 0 {
		return h
	}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	h.panel = ebiten.NewImage(h.width, h.height)
	for i, ctrl := range sess.ParameterControls() {
		top := controlsTop + i*lineHeight
		y := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, y, h.width-panelPadding, y+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		h.controls = append(h.controls, hudControl{ctrl: ctrl, minus: minus, plus: plus})
	}
	return h
}

// SelectedMetric returns the metric shown in the sparkline.
func (h *HUD) SelectedMetric() cyclario.MetricKey {
	return cyclario.MetricKeys[h.metric]
}

// NextMetric advances the sparkline to the next metric.
func (h *HUD) NextMetric() {
	h.metric = (h.metric + 1) % len(cyclario.MetricKeys)
}

// Update refreshes control values and handles clicks on the +/- buttons.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil || h.panel == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	snap := h.sess.Parameters()
	for i := range h.controls {
		c := &h.controls[i]
		p, ok := snap.Find(c.ctrl.Key)
		c.hasValue = false
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(p.Value, 64); err == nil {
			c.value, c.hasValue = v, true
		}
	}

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-h.panelOffsetX, my)
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case pt.In(c.minus):
			h.apply(c, -1)
		case pt.In(c.plus):
			h.apply(c, 1)
		}
	}
}

// target is the clamped value one step away; false when clamping leaves the
// value unchanged.
func (c *hudControl) target(dir int) (float64, bool) {
	if !c.hasValue {
		return 0, false
	}
	step := c.ctrl.Step
	if step <= 0 {
		step = 1
	}
	v := c.value + float64(dir)*step
	if c.ctrl.Type == core.ParamTypeInt {
		v = math.Round(v)
	}
	v = c.ctrl.Clamp(v)
	return v, math.Abs(v-c.value) > 1e-9
}

func (h *HUD) apply(c *hudControl, dir int) {
	v, ok := c.target(dir)
	if !ok {
		return
	}
	switch c.ctrl.Type {
	case core.ParamTypeInt:
		if h.sess.SetIntParameter(c.ctrl.Key, int(v)) {
			c.value = v
		}
	case core.ParamTypeFloat:
		if h.sess.SetFloatParameter(c.ctrl.Key, v) {
			c.value = v
		}
	}
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int) {
	if h == nil || h.panel == nil {
		return
	}
	h.panel.Fill(panelBg)
	face := basicfont.Face7x13

	m := h.sess.Metrics()
	y := panelPadding + headerBaseline
	text.Draw(h.panel, fmt.Sprintf("tick %d  %s", h.sess.Tick(), h.sess.PresetName()), face, panelPadding, y, accent)
	y += 16
	for i, key := range cyclario.MetricKeys {
		v, _ := m.Value(key)
		col := dimColor
		if i == h.metric {
			col = accent
		}
		text.Draw(h.panel, fmt.Sprintf("%-18s %8.3f", key, v), face, panelPadding, y, col)
		y += 14
	}

	series := h.sess.Series(h.SelectedMetric())
	h.drawBars(cyclario.NormalizeSeries(series), image.Rect(panelPadding, y, h.width-panelPadding, y+sparkHeight), accent)
	y += sparkHeight + 6
	h.drawBars(cyclario.NormalizeSeries(spectral.Spectrum(series)), image.Rect(panelPadding, y, h.width-panelPadding, y+sparkHeight), spectrumFg)

	for i := range h.controls {
		h.drawControl(&h.controls[i], face)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawBars(values []float64, area image.Rectangle, col color.RGBA) {
	h.fillRect(area, color.RGBA{R: 15, G: 23, B: 42, A: 255})
	if len(values) == 0 {
		return
	}
	w := float64(area.Dx()) / float64(len(values))
	for i, v := range values {
		bh := int(v * float64(area.Dy()))
		x0 := area.Min.X + int(float64(i)*w)
		x1 := area.Min.X + int(float64(i+1)*w)
		if x1 <= x0 {
			x1 = x0 + 1
		}
		h.fillRect(image.Rect(x0, area.Max.Y-bh, x1, area.Max.Y), col)
	}
}

func (h *HUD) drawControl(c *hudControl, face *basicfont.Face) {
	top := c.minus.Min.Y - (lineHeight-buttonSize)/2
	text.Draw(h.panel, c.ctrl.Label, face, panelPadding, top+labelBaseline, textColor)
	value := "--"
	if c.hasValue {
		value = strconv.FormatFloat(c.value, 'f', -1, 64)
	}
	vw := text.BoundString(face, value).Dx()
	text.Draw(h.panel, value, face, c.minus.Min.X-buttonGap-vw, top+labelBaseline, textColor)
	_, minusOK := c.target(-1)
	_, plusOK := c.target(1)
	h.drawButton(c.minus, "-", minusOK, face)
	h.drawButton(c.plus, "+", plusOK, face)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool, face *basicfont.Face) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) fillRect(r image.Rectangle, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	h.panel.DrawImage(h.pixel, op)
}

const (
	panelPadding   = 12
	lineHeight     = 32
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 14
	labelBaseline  = 20
	sparkHeight    = 40
	controlsTop    = panelPadding + headerBaseline + 16 + 14*8 + 2*sparkHeight + 24
)
