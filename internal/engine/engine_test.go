package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/hugomf/digital-rain/internal/rain"
	"github.com/hugomf/digital-rain/internal/render"
)

type fakeBackend struct {
	mu       sync.Mutex
	w, h     int
	sizeErr  error
	initErr  error
	inited   bool
	finished bool
	frames   []*render.Frame
	quit     chan struct{}
}

func (b *fakeBackend) Init() error {
	b.inited = true
	return b.initErr
}

func (b *fakeBackend) Fini() { b.finished = true }

func (b *fakeBackend) Size() (int, int, error) {
	return b.w, b.h, b.sizeErr
}

func (b *fakeBackend) Present(f *render.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, f)
	return nil
}

func (b *fakeBackend) Quit() <-chan struct{} { return b.quit }

func (b *fakeBackend) presented() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

func newTestEngine(t *testing.T, b *fakeBackend) (*Engine, *rain.Field) {
	t.Helper()
	opts := rain.Options{MinDrops: 5, MaxDrops: 50, Density: 0.5, Speeds: rain.SpeedRange{Min: 4, Max: 20}}
	field, err := rain.NewField(opts, rain.DefaultPool(), rand.New(rand.NewSource(3)), nil)
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(field, b, render.NewPalette(colorful.Color{G: 1}), 30, nil)
	if err != nil {
		t.Fatal(err)
	}
	return e, field
}

func TestNewRejectsZeroFPS(t *testing.T) {
	if _, err := New(nil, &fakeBackend{}, nil, 0, nil); err == nil {
		t.Error("expected error for fps 0")
	}
}

func TestStepSizesAndDraws(t *testing.T) {
	b := &fakeBackend{w: 40, h: 20}
	e, field := newTestEngine(t, b)

	if err := e.Step(0); err != nil {
		t.Fatal(err)
	}
	if field.Size() != (rain.Size{Width: 40, Height: 20}) {
		t.Errorf("field size = %v", field.Size())
	}
	if field.Len() != 20 {
		t.Errorf("drops = %d, want 20", field.Len())
	}

	for i := 0; i < 50; i++ {
		if err := e.Step(100 * time.Millisecond); err != nil {
			t.Fatal(err)
		}
	}
	if e.Frames() != 51 || b.presented() != 51 {
		t.Fatalf("frames = %d presented = %d", e.Frames(), b.presented())
	}

	f := b.frames[len(b.frames)-1]
	lit := 0
	for row := 0; row < f.Height(); row++ {
		for col := 0; col < f.Width(); col++ {
			if _, _, fg := f.At(col, row); fg {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no drop reached the frame")
	}

	b.w, b.h = 10, 8
	if err := e.Step(0); err != nil {
		t.Fatal(err)
	}
	last := b.frames[len(b.frames)-1]
	if last.Width() != 10 || last.Height() != 8 {
		t.Errorf("frame = %dx%d after resize", last.Width(), last.Height())
	}
	if field.Len() != 5 {
		t.Errorf("drops = %d after resize, want 5", field.Len())
	}
}

func TestStepSizeError(t *testing.T) {
	b := &fakeBackend{sizeErr: errors.New("no tty")}
	e, _ := newTestEngine(t, b)
	if err := e.Step(0); err == nil {
		t.Fatal("expected error without a known size")
	}

	b.sizeErr = nil
	b.w, b.h = 20, 10
	if err := e.Step(0); err != nil {
		t.Fatal(err)
	}
	b.sizeErr = errors.New("transient")
	if err := e.Step(time.Millisecond); err != nil {
		t.Errorf("transient size error should keep the last size: %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	b := &fakeBackend{w: 20, h: 10}
	e, _ := newTestEngine(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	if err := e.Run(ctx); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if !b.inited || !b.finished {
		t.Error("backend not initialized and finalized")
	}
	if b.presented() < 2 {
		t.Errorf("presented %d frames", b.presented())
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	b := &fakeBackend{w: 20, h: 10, quit: make(chan struct{})}
	e, _ := newTestEngine(t, b)
	close(b.quit)

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on quit")
	}
}

func TestRunInitError(t *testing.T) {
	b := &fakeBackend{initErr: render.ErrNotTerminal}
	e, _ := newTestEngine(t, b)
	if err := e.Run(context.Background()); !errors.Is(err, render.ErrNotTerminal) {
		t.Errorf("Run() = %v, want ErrNotTerminal", err)
	}
	if b.finished {
		t.Error("Fini called after failed Init")
	}
}
