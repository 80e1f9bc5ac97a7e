package flappy

import "github.com/vovakirdan/flappy-neat/internal/core"

// Observe builds the fixed three-value input seen by a decision function:
//
//	[0] y + height/2         vertical centre of the bird
//	[1] next.UpperY() - y    signed distance to the upper half's top edge
//	[2] (y + height) - next.LowerY
//	                         signed overlap of the bird's bottom with the lower half
//
// next is the nearest pipe whose trailing edge is still ahead of the bird.
// Unrotated sprite height is used so the values do not jump with tilt.
func Observe(b *Bird, height int, next *Pipe) core.Observation {
	h := float64(height)
	obs := core.Observation{b.Y + h/2}
	if next != nil {
		obs[1] = float64(next.UpperY()) - b.Y
		obs[2] = (b.Y + h) - float64(next.LowerY)
	}
	return obs
}
