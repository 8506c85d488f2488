package render

import (
	"testing"

	"github.com/hugomf/digital-rain/internal/rain"
)

func TestFrameSetClips(t *testing.T) {
	f := NewFrame(3, 4)
	f.Set(1, 2, 'x', green)
	f.Set(-1, 0, 'y', green)
	f.Set(4, 0, 'y', green)
	f.Set(0, 3, 'y', green)

	r, c, fg := f.At(1, 2)
	if r != 'x' || c != green || !fg {
		t.Errorf("At(1,2) = %q %v %v", r, c, fg)
	}
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			if r, _, _ := f.At(col, row); r == 'y' {
				t.Errorf("out of bounds write landed at %d,%d", col, row)
			}
		}
	}

	f.Clear()
	if _, _, fg := f.At(1, 2); fg {
		t.Error("Clear left a foreground cell")
	}
}

func TestCanvasDrawDrop(t *testing.T) {
	f := NewFrame(5, 5)
	c := NewCanvas(f, NewPalette(green))
	c.DrawDrop(rain.Front, []rain.Cell{
		{X: 2, Y: 6, Char: 'a'}, // below the bottom edge
		{X: 2, Y: 4, Char: 'b'},
		{X: 2, Y: 3, Char: 'c'},
	})
	if r, _, _ := f.At(2, 4); r != 'b' {
		t.Errorf("At(2,4) = %q, want b", r)
	}
	if r, col, _ := f.At(2, 3); r != 'c' || col != green {
		t.Errorf("At(2,3) = %q %v", r, col)
	}
	if c.Frame() != f {
		t.Error("Frame() returned a different frame")
	}
}
