// Package render draws rain frames to a terminal. Two backends are
// available: a plain ANSI writer and a tcell screen.
package render

import "errors"

// ErrNotTerminal is returned when the output is not an interactive terminal.
var ErrNotTerminal = errors.New("output is not a terminal")

// Backend is a drawing surface for frames.
type Backend interface {
	// Init takes over the terminal.
	Init() error
	// Fini gives the terminal back.
	Fini()
	Size() (width, height int, err error)
	// Present shows a complete frame.
	Present(frame *Frame) error
	// Quit is closed when the user asks to quit. Nil if that never happens.
	Quit() <-chan struct{}
}
