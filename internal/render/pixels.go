package render

import "image/color"

// fillPaletteRGBA converts display values into RGBA pixels using a palette.
// Values past the end of the palette use the last colour. When the palette is
// empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		writeRGBA(buf[i*4:], palette[idx])
	}
}

// fillTrailRGBA is fillPaletteRGBA with each pixel's colour lifted towards
// trail brightness: glow[i] in [0,1] blends from the palette colour to trail.
// A nil glow slice behaves like fillPaletteRGBA.
func fillTrailRGBA(buf []byte, cells []uint8, glow []float64, palette []color.RGBA, trail color.RGBA) {
	fillPaletteRGBA(buf, cells, palette)
	if len(palette) == 0 || len(glow) != len(cells) {
		return
	}
	for i, g := range glow {
		if g <= 0 {
			continue
		}
		if g > 1 {
			g = 1
		}
		base := buf[i*4:]
		c := color.RGBA{R: base[0], G: base[1], B: base[2], A: base[3]}
		writeRGBA(base, lerpRGBA(c, trail, g))
	}
}

func writeRGBA(dst []byte, c color.RGBA) {
	dst[0] = c.R
	dst[1] = c.G
	dst[2] = c.B
	dst[3] = c.A
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
