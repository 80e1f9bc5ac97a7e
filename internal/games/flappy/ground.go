package flappy

import "github.com/vovakirdan/flappy-neat/internal/core"

// Strip is one segment of the scrolling ground.
type Strip struct {
	X float64
	Y int
}

// Ground is two strips that tile the bottom of the world.
type Ground struct {
	Strips   [2]Strip
	width    int
	height   int
	velocity float64
}

// NewGround places the strips side by side at the bottom of a world of height worldH.
func NewGround(width, height, worldH int, velocity float64) *Ground {
	y := worldH - height
	return &Ground{
		Strips:   [2]Strip{{X: 0, Y: y}, {X: float64(width), Y: y}},
		width:    width,
		height:   height,
		velocity: velocity,
	}
}

// Advance scrolls both strips; a strip that fully left the screen moves to
// the right edge of the other one.
func (g *Ground) Advance() {
	for i := range g.Strips {
		g.Strips[i].X -= g.velocity
	}
	for i := range g.Strips {
		if g.Strips[i].X+float64(g.width) <= 0 {
			g.Strips[i].X = g.Strips[1-i].X + float64(g.width)
		}
	}
}

// Y returns the top edge of the ground.
func (g *Ground) Y() int {
	return g.Strips[0].Y
}

// Rects returns the strip bounding boxes.
func (g *Ground) Rects() [2]core.Rect {
	var out [2]core.Rect
	for i, s := range g.Strips {
		out[i] = core.RectAt(s.X, float64(s.Y), g.width, g.height)
	}
	return out
}
