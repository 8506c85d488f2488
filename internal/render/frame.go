package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/hugomf/digital-rain/internal/rain"
)

// Frame represents the in-memory screen state.
type Frame struct {
	characters   [][]rune           // Characters to display
	colors       [][]colorful.Color // Colors for each position
	isBackground [][]bool           // Whether a position is background
	height       int
	width        int
}

// NewFrame creates a new Frame with the given dimensions.
func NewFrame(height, width int) *Frame {
	height, width = max(height, 0), max(width, 0)
	characters := make([][]rune, height)
	colors := make([][]colorful.Color, height)
	isBackground := make([][]bool, height)
	for i := range characters {
		characters[i] = make([]rune, width)
		colors[i] = make([]colorful.Color, width)
		isBackground[i] = make([]bool, width)
		for j := range characters[i] {
			characters[i][j] = ' '
			isBackground[i][j] = true
		}
	}
	return &Frame{
		height:       height,
		width:        width,
		characters:   characters,
		colors:       colors,
		isBackground: isBackground,
	}
}

func (f *Frame) Height() int { return f.height }
func (f *Frame) Width() int { return f.width }

// Clear resets the frame to its default state.
func (f *Frame) Clear() {
	for i := range f.characters {
		for j := range f.characters[i] {
			f.characters[i][j] = ' '
			f.isBackground[i][j] = true
			f.colors[i][j] = colorful.Color{}
		}
	}
}

// Set writes a colored rune. Positions outside the frame are ignored.
func (f *Frame) Set(col, row int, r rune, c colorful.Color) {
	if row < 0 || row >= f.height || col < 0 || col >= f.width {
		return
	}
	f.characters[row][col] = r
	f.colors[row][col] = c
	f.isBackground[row][col] = false
}

// At returns the rune and color at a position and whether it is foreground.
func (f *Frame) At(col, row int) (rune, colorful.Color, bool) {
	if row < 0 || row >= f.height || col < 0 || col >= f.width {
		return ' ', colorful.Color{}, false
	}
	return f.characters[row][col], f.colors[row][col], !f.isBackground[row][col]
}

// copyTo copies f into dst, which must have the same dimensions.
func (f *Frame) copyTo(dst *Frame) {
	for r := range f.characters {
		copy(dst.characters[r], f.characters[r])
		copy(dst.colors[r], f.colors[r])
		copy(dst.isBackground[r], f.isBackground[r])
	}
}

// Canvas paints drops onto a frame, clipping to its bounds.
type Canvas struct {
	frame   *Frame
	palette *Palette
}

// NewCanvas binds a palette to a frame.
func NewCanvas(frame *Frame, palette *Palette) *Canvas {
	return &Canvas{frame: frame, palette: palette}
}

// DrawDrop implements rain.Renderer.
func (c *Canvas) DrawDrop(style rain.Style, cells []rain.Cell) {
	for i, cell := range cells {
		c.frame.Set(cell.X, cell.Y, cell.Char, c.palette.Shade(style, i, len(cells)))
	}
}

// Frame returns the frame being painted.
func (c *Canvas) Frame() *Frame {
	return c.frame
}
