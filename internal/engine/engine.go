// Package engine runs the frame loop: it keeps the field sized to the
// backend, advances it by the measured elapsed time and presents each frame.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hugomf/digital-rain/internal/logging"
	"github.com/hugomf/digital-rain/internal/rain"
	"github.com/hugomf/digital-rain/internal/render"
)

// Engine manages the rain effect, generating frames from drops.
type Engine struct {
	field   *rain.Field
	backend render.Backend
	palette *render.Palette
	canvas  *render.Canvas
	fps     int
	logger  *slog.Logger
	frames  uint64
}

// New creates an Engine. fps must be positive.
func New(field *rain.Field, backend render.Backend, palette *render.Palette, fps int, logger *slog.Logger) (*Engine, error) {
	if fps < 1 {
		return nil, fmt.Errorf("fps must be positive: got %d", fps)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{
		field:   field,
		backend: backend,
		palette: palette,
		fps:     fps,
		logger:  logger,
	}, nil
}

// Frames returns the number of frames presented so far.
func (e *Engine) Frames() uint64 {
	return e.frames
}

// resize adjusts the field and frame buffer when the surface changed.
func (e *Engine) resize() error {
	w, h, err := e.backend.Size()
	if err != nil {
		if e.canvas == nil {
			return fmt.Errorf("cannot get terminal size: %w", err)
		}
		// keep drawing at the last known size
		e.logger.Debug("size unavailable", "error", err)
		return nil
	}
	size := rain.Size{Width: w, Height: h}
	if e.canvas != nil && size == e.field.Size() {
		return nil
	}
	e.field.Resize(size)
	e.canvas = render.NewCanvas(render.NewFrame(h, w), e.palette)
	return nil
}

// Step advances the rain by dt and presents one frame.
func (e *Engine) Step(dt time.Duration) error {
	if err := e.resize(); err != nil {
		return err
	}
	e.field.Update(dt)

	frame := e.canvas.Frame()
	frame.Clear()
	e.field.Render(e.canvas)
	if err := e.backend.Present(frame); err != nil {
		return fmt.Errorf("failed to present frame: %w", err)
	}
	e.frames++
	e.logger.Log(context.Background(), logging.LevelTrace, "frame", "n", e.frames, "dt", dt)
	return nil
}

// Run takes over the backend and animates until ctx is done or the backend
// reports a quit request.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer e.backend.Fini()

	if err := e.Step(0); err != nil {
		return err
	}

	tick := time.NewTicker(time.Second / time.Duration(e.fps))
	defer tick.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-e.backend.Quit():
			return nil
		case now := <-tick.C:
			dt := now.Sub(last)
			last = now
			if err := e.Step(dt); err != nil {
				return fmt.Errorf("failed to generate frame: %w", err)
			}
		}
	}
}
