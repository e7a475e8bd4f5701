//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"cyclario/internal/core"
	"cyclario/internal/sims/cyclario"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	sectorColor = color.RGBA{R: 51, G: 65, B: 85, A: 255}
	busColor    = color.RGBA{R: 217, G: 70, B: 239, A: 200}
	hashColor   = color.RGBA{R: 0, G: 0, B: 0, A: 128}
	cursorColor = color.RGBA{R: 0, G: 240, B: 255, A: 255}
)

// Overlay draws sector lines, interconnect buses, refractory hash marks and the
// edit cursor over the lattice.
type Overlay struct {
	sess  *cyclario.Session
	scale int
	pixel *ebiten.Image

	ShowBuses bool
	Cursor    core.Coord
}

// NewOverlay constructs an overlay for sess drawn at scale pixels per cell.
func NewOverlay(sess *cyclario.Session, scale int) *Overlay {
	o := &Overlay{sess: sess, scale: max(scale, 1), ShowBuses: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Draw renders the overlay onto screen. layer selects which depth layer the
// refractory marks read from.
func (o *Overlay) Draw(screen *ebiten.Image, layer int) {
	s := float64(o.scale)
	full := s * cyclario.Size

	for i := 1; i < cyclario.Size/cyclario.KernelSize; i++ {
		p := float64(i*cyclario.KernelSize) * s
		o.drawLine(screen, p, 0, p, full, 1, sectorColor)
		o.drawLine(screen, 0, p, full, p, 1, sectorColor)
	}

	l := o.sess.Lattice()
	for i := 0; i < cyclario.Size; i++ {
		for j := 0; j < cyclario.Size; j++ {
			st := l[i][j][layer]
			if st != cyclario.StateRefractory1 && st != cyclario.StateRefractory2 {
				continue
			}
			x, y := float64(j)*s, float64(i)*s
			o.drawLine(screen, x+2, y+2, x+s-2, y+s-2, 1, hashColor)
		}
	}

	if o.ShowBuses {
		for _, b := range o.sess.Buses() {
			alpha := uint8(float64(busColor.A) * b.Intensity)
			col := color.RGBA{R: busColor.R, G: busColor.G, B: busColor.B, A: alpha}
			o.drawLine(screen, b.Start.X*s, b.Start.Y*s, b.End.X*s, b.End.Y*s, math.Max(2, s/8), col)
		}
	}

	cx, cy := float64(o.Cursor.Col)*s, float64(o.Cursor.Row)*s
	o.drawLine(screen, cx, cy, cx+s, cy, 2, cursorColor)
	o.drawLine(screen, cx, cy+s, cx+s, cy+s, 2, cursorColor)
	o.drawLine(screen, cx, cy, cx, cy+s, 2, cursorColor)
	o.drawLine(screen, cx+s, cy, cx+s, cy+s, 2, cursorColor)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
