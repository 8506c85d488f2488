package rain

import (
	"fmt"
	"math"
	"time"
)

// fastSpeed is the rows-per-second threshold above which a drop grows one
// character per row crossed instead of at most one per tick.
const fastSpeed = 8

// Rand is the entropy a drop consumes. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Size is the drawable surface in cells.
type Size struct {
	Width  int
	Height int
}

// SpeedRange bounds the fall speed in rows per second, both ends inclusive.
type SpeedRange struct {
	Min int
	Max int
}

// Point is a cell position on the surface.
type Point struct {
	X int
	Y int
}

// Cell is one projected body character.
type Cell struct {
	X    int
	Y    int
	Char rune
}

// Drop is one falling stream of characters. Body is head-first: body[0] is
// the lowest visible character. A drop is never destroyed; once its tail
// leaves the surface it is recycled in place with a new random state.
type Drop struct {
	id        int
	pool      *CharacterPool
	body      []rune
	style     Style
	fx        int
	fy        float64
	maxLength int
	speed     int
}

// intRange returns a uniform integer in [lo, hi]. Inverted bounds are a
// caller bug and panic.
func intRange(rng Rand, lo, hi int) int {
	if lo > hi {
		panic(fmt.Sprintf("rain: invalid range [%d, %d]", lo, hi))
	}
	return lo + rng.Intn(hi-lo+1)
}

// column returns a uniform column in [0, width), or 0 on an empty surface.
func column(rng Rand, width int) int {
	if width <= 0 {
		return 0
	}
	return rng.Intn(width)
}

// NewDrop creates a drop with random state bounded by the surface size.
func NewDrop(size Size, speeds SpeedRange, id int, pool *CharacterPool, rng Rand) *Drop {
	style := RandomStyle(rng)
	fx := column(rng, size.Width)

	fy := 0.0
	if band := size.Height / 4; band > 0 {
		fy = float64(rng.Intn(band))
	}

	maxLength := intRange(rng, 4, max(4, 2*size.Height/3))
	speed := intRange(rng, speeds.Min, speeds.Max)

	length := 1 + rng.Intn(maxLength/2-1)
	body := make([]rune, length)
	for i := range body {
		body[i] = pool.Random(rng)
	}

	return &Drop{
		id:        id,
		pool:      pool,
		body:      body,
		style:     style,
		fx:        fx,
		fy:        fy,
		maxLength: maxLength,
		speed:     speed,
	}
}

// DropFromValues builds a drop with explicit state.
func DropFromValues(id int, pool *CharacterPool, body []rune, style Style, fx int, fy float64, maxLength, speed int) *Drop {
	return &Drop{
		id:        id,
		pool:      pool,
		body:      append([]rune(nil), body...),
		style:     style,
		fx:        fx,
		fy:        fy,
		maxLength: maxLength,
		speed:     speed,
	}
}

func (d *Drop) ID() int { return d.id }
func (d *Drop) Style() Style { return d.style }
func (d *Drop) Speed() int { return d.speed }
func (d *Drop) MaxLength() int { return d.maxLength }
func (d *Drop) Y() float64 { return d.fy }
func (d *Drop) Len() int { return len(d.body) }

// Body returns a copy of the characters, head first.
func (d *Drop) Body() []rune {
	return append([]rune(nil), d.body...)
}

// round is the single rounding convention used for every row computation:
// nearest integer, ties away from zero.
func round(f float64) int {
	return int(math.Round(f))
}

// Point is the head position.
func (d *Drop) Point() Point {
	return Point{X: d.fx, Y: round(d.fy)}
}

// Cells projects the body onto the surface, head first. Projection stops at
// the first row above the top edge; rows past the bottom are kept and left
// to the renderer to clip.
func (d *Drop) Cells() []Cell {
	head := d.Point()
	cells := make([]Cell, 0, len(d.body))
	for i, ch := range d.body {
		y := head.Y - i
		if y < 0 {
			break
		}
		cells = append(cells, Cell{X: head.X, Y: y, Char: ch})
	}
	return cells
}

// Reset recycles the drop in place. Everything but the id is re-randomized.
// Respawned drops use a shorter length range than new ones.
func (d *Drop) Reset(size Size, speeds SpeedRange, rng Rand) {
	d.body = append(d.body[:0], d.pool.Random(rng))
	d.style = RandomStyle(rng)
	d.fy = 0
	d.fx = column(rng, size.Width)
	d.speed = intRange(rng, speeds.Min, speeds.Max)
	lo := size.Height/4 + 1
	d.maxLength = intRange(rng, lo, max(lo, size.Height/2))
}

// grow adds characters at the head for the rows crossed since fy was last
// committed. Fast drops add one per row, slow drops at most one per call.
func (d *Drop) grow(headRow int, rng Rand) {
	if len(d.body) >= d.maxLength {
		d.body = d.body[:d.maxLength]
		return
	}

	delta := headRow - round(d.fy)
	if delta > 0 {
		n := 1
		if d.speed > fastSpeed {
			n = delta
		}
		head := make([]rune, n, n+len(d.body))
		for i := range head {
			head[i] = d.pool.Random(rng)
		}
		d.body = append(head, d.body...)
	}

	if len(d.body) > d.maxLength {
		d.body = d.body[:d.maxLength]
	}
}

// Update advances the drop by dt.
func (d *Drop) Update(size Size, speeds SpeedRange, dt time.Duration, rng Rand) {
	// An empty body should be unreachable; recover by recycling.
	if len(d.body) == 0 {
		d.Reset(size, speeds, rng)
		return
	}

	fy := d.fy + float64(d.speed)*dt.Seconds()
	headRow := round(fy)
	tailRow := headRow - len(d.body)
	height := size.Height

	switch {
	case tailRow <= 0:
		// still emerging from the top
		d.grow(headRow, rng)
		d.fy = fy
	case headRow <= height && tailRow > 0:
		d.grow(headRow, rng)
		d.fy = fy
	case headRow > height && tailRow < height:
		// head is past the bottom, tail still visible
		d.fy = fy
	case tailRow >= height:
		d.Reset(size, speeds, rng)
	}
}
