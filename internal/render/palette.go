package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/hugomf/digital-rain/internal/rain"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// Palette turns a drop style and a body index into a color.
type Palette struct {
	base colorful.Color
	head colorful.Color
}

// NewPalette derives the head highlight from the base color.
func NewPalette(base colorful.Color) *Palette {
	return &Palette{
		base: base,
		head: base.BlendRgb(white, 0.75).Clamped(),
	}
}

// Base returns the theme color.
func (p *Palette) Base() colorful.Color {
	return p.base
}

// Shade returns the color of body index i in a body of n cells.
func (p *Palette) Shade(style rain.Style, i, n int) colorful.Color {
	switch style {
	case rain.Front:
		if i == 0 {
			return p.head
		}
		return p.base
	case rain.Middle:
		if i == 0 {
			return p.base
		}
		return dim(p.base, 0.75)
	case rain.Back:
		return dim(p.base, 0.45)
	case rain.Fading:
		return dim(p.base, 1.0-progress(i, n)*0.8)
	default:
		// head blends from white into the base over the first third, then
		// the trail fades out
		t := progress(i, n)
		if t < 1.0/3 {
			return p.head.BlendLab(p.base, t*3).Clamped()
		}
		return dim(p.base, 1.0-(t-1.0/3)*1.2)
	}
}

// progress is i's position along the body, 0 at the head and 1 at the tail.
func progress(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

// dim reduces the brightness of a color by a factor.
func dim(c colorful.Color, factor float64) colorful.Color {
	if factor < 0 {
		factor = 0
	}
	return colorful.Color{R: c.R * factor, G: c.G * factor, B: c.B * factor}.Clamped()
}
