//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads display-encoded cells into a single w*h image and draws
// it scaled.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit colours cells through palette, brightening them by glow, and draws the
// result at the given scale.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, glow []float64, palette []color.RGBA, trail color.RGBA, scale int) {
	if len(cells) != gp.w*gp.h {
		return
	}
	fillTrailRGBA(gp.buf, cells, glow, palette, trail)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
