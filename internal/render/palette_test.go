package render

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hugomf/digital-rain/internal/rain"
)

var green = colorful.Color{R: 0, G: 1, B: 0}

func TestPaletteShade(t *testing.T) {
	p := NewPalette(green)

	head := p.Shade(rain.Front, 0, 5)
	if head.R <= 0 || head.G != 1 {
		t.Errorf("front head = %v, want whitened green", head)
	}
	if got := p.Shade(rain.Front, 3, 5); got != green {
		t.Errorf("front body = %v, want base", got)
	}
	if got := p.Shade(rain.Back, 0, 5); got.G >= green.G {
		t.Errorf("back = %v, want dimmer than base", got)
	}
	if got := p.Shade(rain.Middle, 0, 5); got != green {
		t.Errorf("middle head = %v, want base", got)
	}
}

func TestPaletteFadesTowardsTail(t *testing.T) {
	p := NewPalette(green)
	for _, style := range []rain.Style{rain.Fading, rain.Gradient} {
		const n = 10
		prev := p.Shade(style, n/2, n).G
		for i := n/2 + 1; i < n; i++ {
			g := p.Shade(style, i, n).G
			if g > prev {
				t.Errorf("%v: index %d brighter than %d", style, i, i-1)
			}
			prev = g
		}
		if tail := p.Shade(style, n-1, n); tail.G <= 0 {
			t.Errorf("%v: tail fully black", style)
		}
	}
}

func TestPaletteSingleCell(t *testing.T) {
	p := NewPalette(green)
	for _, style := range []rain.Style{rain.Front, rain.Middle, rain.Back, rain.Fading, rain.Gradient} {
		c := p.Shade(style, 0, 1)
		if !c.IsValid() {
			t.Errorf("%v: invalid color %v", style, c)
		}
	}
}
