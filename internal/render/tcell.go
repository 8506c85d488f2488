package render

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// TcellBackend draws through a tcell screen and watches the keyboard for
// q, Esc and Ctrl-C.
type TcellBackend struct {
	screen tcell.Screen
	quit   chan struct{}
	once   sync.Once
}

// NewTcellBackend wraps screen. A nil screen opens the real terminal.
func NewTcellBackend(screen tcell.Screen) (*TcellBackend, error) {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("creating tcell screen: %w", err)
		}
		screen = s
	}
	return &TcellBackend{
		screen: screen,
		quit:   make(chan struct{}),
	}, nil
}

func (b *TcellBackend) Init() error {
	if err := b.screen.Init(); err != nil {
		return fmt.Errorf("initializing tcell screen: %w", err)
	}
	b.screen.HideCursor()
	b.screen.Clear()
	go b.pollEvents()
	return nil
}

// pollEvents runs until the screen is finalized.
func (b *TcellBackend) pollEvents() {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
				b.once.Do(func() { close(b.quit) })
			}
		case *tcell.EventResize:
			b.screen.Sync()
		}
	}
}

func (b *TcellBackend) Fini() {
	b.screen.Fini()
}

func (b *TcellBackend) Size() (int, int, error) {
	w, h := b.screen.Size()
	return w, h, nil
}

func (b *TcellBackend) Present(frame *Frame) error {
	for row := 0; row < frame.height; row++ {
		for col := 0; col < frame.width; col++ {
			if frame.isBackground[row][col] {
				b.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
				continue
			}
			r, g, bl := frame.colors[row][col].RGB255()
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(bl)))
			b.screen.SetContent(col, row, frame.characters[row][col], nil, style)
		}
	}
	b.screen.Show()
	return nil
}

func (b *TcellBackend) Quit() <-chan struct{} {
	return b.quit
}
