package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Screen writes frames as ANSI sequences, redrawing only changed cells once
// a first full frame is on screen.
type Screen struct {
	out           io.Writer
	profile       termenv.Profile
	previousFrame *Frame
}

// NewScreen creates a new Screen. Colors are downsampled to profile.
func NewScreen(out io.Writer, profile termenv.Profile) *Screen {
	return &Screen{out: out, profile: profile}
}

// Draw renders a frame, using delta rendering when possible.
func (s *Screen) Draw(frame *Frame) error {
	if s.previousFrame == nil || s.previousFrame.height != frame.height || s.previousFrame.width != frame.width {
		if err := s.fullRender(frame); err != nil {
			return err
		}
		s.previousFrame = NewFrame(frame.height, frame.width)
	} else if err := s.deltaRender(frame); err != nil {
		return err
	}
	frame.copyTo(s.previousFrame)
	return nil
}

// Invalidate forces the next Draw to repaint everything.
func (s *Screen) Invalidate() {
	s.previousFrame = nil
}

// writeColor writes the color sequence when it differs from the current one.
func (s *Screen) writeColor(b *strings.Builder, c colorful.Color, isColorSet *bool, currentColor *colorful.Color) {
	if *isColorSet && c == *currentColor {
		return
	}
	seq := s.profile.FromColor(c).Sequence(false)
	if seq == "" {
		return
	}
	b.WriteString(termenv.CSI + seq + "m")
	*currentColor = c
	*isColorSet = true
}

func resetColor(b *strings.Builder, isColorSet *bool) {
	if *isColorSet {
		b.WriteString(termenv.CSI + termenv.ResetSeq + "m")
		*isColorSet = false
	}
}

// fullRender draws the entire frame.
func (s *Screen) fullRender(frame *Frame) error {
	var b strings.Builder
	// Estimate: 1 rune + up to 20 bytes for color codes per cell, plus newlines
	b.Grow(frame.height * (frame.width*21 + 2))
	b.WriteString(termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, 1, 1))
	var currentColor colorful.Color
	isColorSet := false

	for row := 0; row < frame.height; row++ {
		for col := 0; col < frame.width; col++ {
			if frame.isBackground[row][col] {
				resetColor(&b, &isColorSet)
			} else {
				s.writeColor(&b, frame.colors[row][col], &isColorSet, &currentColor)
			}
			b.WriteRune(frame.characters[row][col])
		}
		if row < frame.height-1 {
			b.WriteString("\r\n")
		}
	}
	resetColor(&b, &isColorSet)
	_, err := io.WriteString(s.out, b.String())
	return err
}

// deltaRender draws only changed parts of the frame.
func (s *Screen) deltaRender(frame *Frame) error {
	var b strings.Builder
	var currentColor colorful.Color
	isColorSet := false
	hasChanges := false

	for col := 0; col < frame.width; col++ {
		for row := 0; row < frame.height; row++ {
			prev := s.previousFrame
			if frame.characters[row][col] == prev.characters[row][col] &&
				frame.colors[row][col] == prev.colors[row][col] &&
				frame.isBackground[row][col] == prev.isBackground[row][col] {
				continue
			}
			hasChanges = true
			b.WriteString(termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, row+1, col+1))
			if frame.isBackground[row][col] {
				resetColor(&b, &isColorSet)
			} else {
				s.writeColor(&b, frame.colors[row][col], &isColorSet, &currentColor)
			}
			b.WriteRune(frame.characters[row][col])
		}
	}
	if !hasChanges {
		return nil
	}
	resetColor(&b, &isColorSet)
	_, err := io.WriteString(s.out, b.String())
	return err
}

// ANSIBackend drives a terminal through plain escape sequences.
type ANSIBackend struct {
	file   *os.File
	output *termenv.Output
	screen *Screen
}

// NewANSIBackend writes to f, usually os.Stdout.
func NewANSIBackend(f *os.File) *ANSIBackend {
	output := termenv.NewOutput(f)
	return &ANSIBackend{
		file:   f,
		output: output,
		screen: NewScreen(f, output.ColorProfile()),
	}
}

// Init switches to the alternate buffer and hides the cursor.
func (b *ANSIBackend) Init() error {
	fd := b.file.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNotTerminal
	}
	b.output.AltScreen()
	b.output.HideCursor()
	b.output.ClearScreen()
	b.screen.Invalidate()
	return nil
}

// Fini restores the terminal to its original state.
func (b *ANSIBackend) Fini() {
	b.output.Reset()
	b.output.ShowCursor()
	b.output.ExitAltScreen()
}

// Size returns the terminal's width and height in cells.
func (b *ANSIBackend) Size() (int, int, error) {
	w, h, err := term.GetSize(int(b.file.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get terminal size: %w", err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New("invalid terminal dimensions")
	}
	return w, h, nil
}

func (b *ANSIBackend) Present(frame *Frame) error {
	return b.screen.Draw(frame)
}

// Quit is nil: the ANSI backend reads no input, interrupts arrive as signals.
func (b *ANSIBackend) Quit() <-chan struct{} {
	return nil
}
