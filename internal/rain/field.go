package rain

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Options configures a Field.
type Options struct {
	MinDrops int        // Lower bound on the number of drops
	MaxDrops int        // Upper bound on the number of drops
	Density  float64    // Drops per column before clamping
	Speeds   SpeedRange // Fall speed range handed to every drop
}

// Validate checks the options. Speed bounds must be valid before any drop
// samples them.
func (o Options) Validate() error {
	if o.Speeds.Min <= 0 || o.Speeds.Max <= 0 {
		return fmt.Errorf("speeds must be positive: got %d-%d", o.Speeds.Min, o.Speeds.Max)
	}
	if o.Speeds.Min > o.Speeds.Max {
		return fmt.Errorf("min speed %d is greater than max speed %d", o.Speeds.Min, o.Speeds.Max)
	}
	if o.MinDrops <= 0 || o.MaxDrops < o.MinDrops {
		return fmt.Errorf("invalid drop count range: %d-%d", o.MinDrops, o.MaxDrops)
	}
	if o.Density <= 0 || o.Density > 3.0 {
		return fmt.Errorf("density out of range (0-3.0]: got %.2f", o.Density)
	}
	return nil
}

// Renderer receives the projection of every drop.
type Renderer interface {
	DrawDrop(style Style, cells []Cell)
}

// Field owns the drops and steps them together.
type Field struct {
	opts   Options
	pool   *CharacterPool
	rng    Rand
	logger *slog.Logger
	size   Size
	drops  []*Drop
	nextID int
}

// NewField creates an empty field; call Resize to populate it.
func NewField(opts Options, pool *CharacterPool, rng Rand, logger *slog.Logger) (*Field, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errors.New("character pool is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Field{
		opts:   opts,
		pool:   pool,
		rng:    rng,
		logger: logger,
	}, nil
}

// targetDrops is the drop count for a surface width.
func (f *Field) targetDrops(width int) int {
	n := int(math.Round(f.opts.Density * float64(width)))
	return min(max(n, f.opts.MinDrops), f.opts.MaxDrops)
}

// Resize adapts the field to a new surface. Drops are added or trimmed to
// match the density, and drops left outside the narrower surface are
// recycled.
func (f *Field) Resize(size Size) {
	if size == f.size && f.drops != nil {
		return
	}
	f.size = size

	for _, d := range f.drops {
		if d.Point().X >= size.Width {
			d.Reset(size, f.opts.Speeds, f.rng)
		}
	}

	target := f.targetDrops(size.Width)
	if target < len(f.drops) {
		clear(f.drops[target:])
		f.drops = f.drops[:target]
	}
	for len(f.drops) < target {
		f.nextID++
		f.drops = append(f.drops, NewDrop(size, f.opts.Speeds, f.nextID, f.pool, f.rng))
	}

	f.logger.Debug("field resized",
		"width", size.Width,
		"height", size.Height,
		"drops", len(f.drops))
}

// Update advances every drop by dt.
func (f *Field) Update(dt time.Duration) {
	for _, d := range f.drops {
		d.Update(f.size, f.opts.Speeds, dt, f.rng)
	}
}

// Render hands every drop's projection to r.
func (f *Field) Render(r Renderer) {
	for _, d := range f.drops {
		cells := d.Cells()
		if len(cells) == 0 {
			continue
		}
		r.DrawDrop(d.style, cells)
	}
}

func (f *Field) Len() int { return len(f.drops) }
func (f *Field) Size() Size { return f.size }

// Drops returns the live drops. Callers must not mutate them concurrently
// with Update.
func (f *Field) Drops() []*Drop {
	return f.drops
}
