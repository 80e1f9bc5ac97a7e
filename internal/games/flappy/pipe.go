package flappy

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// Pipe is a paired obstacle. Both halves share X; the lower half's top edge
// is LowerY and the upper half sits Gap pixels above it.
type Pipe struct {
	X        float64
	LowerY   int
	Passed   bool
	Recycles int

	gap    int
	width  int
	height int
}

// UpperY returns the top edge of the upper half.
func (p *Pipe) UpperY() int {
	return p.LowerY - (p.gap + p.height)
}

// Width returns the sprite width of one half.
func (p *Pipe) Width() int { return p.width }

// Height returns the sprite height of one half.
func (p *Pipe) Height() int { return p.height }

// Gap returns the opening between the halves.
func (p *Pipe) Gap() int { return p.gap }

// Right returns the trailing edge.
func (p *Pipe) Right() float64 { return p.X + float64(p.width) }

// UpperRect and LowerRect return the bounding boxes of the halves.
func (p *Pipe) UpperRect() core.Rect { return core.RectAt(p.X, float64(p.UpperY()), p.width, p.height) }

func (p *Pipe) LowerRect() core.Rect { return core.RectAt(p.X, float64(p.LowerY), p.width, p.height) }

// Offscreen reports whether the pipe has fully left the left edge.
func (p *Pipe) Offscreen() bool {
	return p.Right() <= 0
}

// Course is the fixed pool of pipes shared by every agent in a session.
// Pipes are repositioned, never removed, so indices are stable.
type Course struct {
	pipes    []Pipe
	velocity float64
	interval float64
	worldW   float64
	minY     int
	maxY     int
}

// NewCourse spawns cfg.Pipe.Count pipes starting at the configured first x,
// each Interval to the right of the previous one.
func NewCourse(cfg config.FlappyConfig, width, height int, rng *rand.Rand) *Course {
	h := float64(cfg.World.Height)
	c := &Course{
		pipes:    make([]Pipe, cfg.Pipe.Count),
		velocity: cfg.Pipe.Velocity,
		interval: float64(cfg.PipeInterval()),
		worldW:   float64(cfg.World.Width),
		minY:     int(math.Round(h * cfg.Pipe.MinGapRatio)),
		maxY:     int(math.Round(h * cfg.Pipe.MaxGapRatio)),
	}

	x := cfg.PipeFirstX()
	for i := range c.pipes {
		c.pipes[i] = Pipe{X: x, gap: cfg.Pipe.Gap, width: width, height: height}
		c.RandomizeGap(&c.pipes[i], rng)
		x += c.interval
	}
	return c
}

// Pipes returns the pool. Callers must not append to it.
func (c *Course) Pipes() []Pipe {
	return c.pipes
}

// RandomizeGap draws a new lower edge uniformly in the configured band.
func (c *Course) RandomizeGap(p *Pipe, rng *rand.Rand) {
	p.LowerY = c.minY + rng.Intn(c.maxY-c.minY+1)
}

// Advance moves every pipe left and then recycles the ones that left the screen.
// It returns the indices recycled this tick.
func (c *Course) Advance(rng *rand.Rand) []int {
	for i := range c.pipes {
		c.pipes[i].X -= c.velocity
	}

	var recycled []int
	for i := range c.pipes {
		if c.RecycleIfOffscreen(i, rng) {
			recycled = append(recycled, i)
		}
	}
	return recycled
}

// RecycleIfOffscreen re-places pipe i one interval behind the rightmost other
// pipe, with a fresh gap and a cleared passed flag. A lone pipe re-enters at
// the right edge of the world.
func (c *Course) RecycleIfOffscreen(i int, rng *rand.Rand) bool {
	p := &c.pipes[i]
	if !p.Offscreen() {
		return false
	}

	x := c.worldW
	if rightmost, ok := c.rightmost(i); ok {
		x = rightmost + c.interval
	}

	c.RandomizeGap(p, rng)
	p.Passed = false
	p.X = x
	p.Recycles++
	return true
}

func (c *Course) rightmost(skip int) (float64, bool) {
	best, found := 0.0, false
	for i := range c.pipes {
		if i == skip {
			continue
		}
		if !found || c.pipes[i].X > best {
			best, found = c.pipes[i].X, true
		}
	}
	return best, found
}

// NextAhead returns the nearest pipe whose trailing edge has not yet passed x.
// When every pipe is behind x it falls back to the rightmost one.
func (c *Course) NextAhead(x float64) *Pipe {
	var next, rightmost *Pipe
	for i := range c.pipes {
		p := &c.pipes[i]
		if rightmost == nil || p.X > rightmost.X {
			rightmost = p
		}
		if p.Right() < x {
			continue
		}
		if next == nil || p.X < next.X {
			next = p
		}
	}
	if next == nil {
		return rightmost
	}
	return next
}
