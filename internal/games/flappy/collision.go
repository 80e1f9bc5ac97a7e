package flappy

import (
	"math"

	"github.com/vovakirdan/flappy-neat/internal/assets"
)

// CrashKind classifies what removed an agent.
type CrashKind uint8

const (
	CrashNone CrashKind = iota
	CrashBase           // Touched the ground
	CrashPipe           // Pixel overlap with a pipe half
	CrashSky            // Above the screen inside a pipe's span
)

func (k CrashKind) String() string {
	switch k {
	case CrashNone:
		return "none"
	case CrashBase:
		return "base"
	case CrashPipe:
		return "pipe"
	case CrashSky:
		return "sky"
	}
	return "unknown"
}

// Collide tests one bird against the ground and every pipe.
// The ground is a rectangle test; pipes use pixel masks, with the lower half
// offset rounded up and the upper half rounded down.
func Collide(b *Bird, ground *Ground, pipes []Pipe, p assets.Provider) CrashKind {
	rect := b.Rect(p)
	for _, r := range ground.Rects() {
		if rect.Intersects(r) {
			return CrashBase
		}
	}

	mask := b.Mask(p)
	lower, upper := p.PipeMask(false), p.PipeMask(true)
	for i := range pipes {
		pipe := &pipes[i]
		dx := pipe.X - b.X

		if mask.Overlap(lower, int(math.Ceil(dx)), int(math.Ceil(float64(pipe.LowerY)-b.Y))) {
			return CrashPipe
		}
		if mask.Overlap(upper, int(math.Floor(dx)), int(math.Floor(float64(pipe.UpperY())-b.Y))) {
			return CrashPipe
		}
		if b.Y < 0 && pipe.X < b.X && b.X < pipe.Right() {
			return CrashSky
		}
	}
	return CrashNone
}
