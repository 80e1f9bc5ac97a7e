package flappy

import (
	"fmt"

	"github.com/vovakirdan/flappy-neat/internal/assets"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// GlideFrame is the animation frame held while the bird nose-dives.
const GlideFrame = 1

// Bird is the physical state of one agent. X never changes after spawn.
// Velocity is positive upward, so a rising bird has a decreasing Y.
type Bird struct {
	X        float64
	Y        float64
	Velocity float64
	Tilt     float64
	Frame    int

	tiltTicks int // Idle ticks since the last jump
	animTicks int
	cfg       config.BirdConfig
}

// NewBird creates a bird at rest at (x, y).
func NewBird(cfg config.BirdConfig, x, y float64) *Bird {
	return &Bird{X: x, Y: y, cfg: cfg}
}

// Apply advances the bird by one control decision.
// It panics on a decision other than Jump or NoJump.
func (b *Bird) Apply(d core.Decision) {
	switch d {
	case core.Jump:
		b.Jump()
	case core.NoJump:
		b.Idle()
	default:
		panic(fmt.Sprintf("flappy: invalid decision %v", d))
	}
}

// Jump launches the bird upward and resets the tilt delay.
func (b *Bird) Jump() {
	b.Velocity = b.cfg.JumpVelocity
	b.integrate()
	b.Tilt = core.ClampF(b.cfg.TiltUp, b.cfg.MinTilt, b.cfg.MaxTilt)
	b.tiltTicks = 0
}

// Idle applies gravity and, once the tilt delay has passed, tips the nose down.
func (b *Bird) Idle() {
	b.Velocity -= b.cfg.Gravity
	b.integrate()
	b.tiltTicks++
	if b.tiltTicks > b.cfg.TiltDelay {
		b.Tilt = core.ClampF(b.Tilt-b.cfg.TiltStep, b.cfg.MinTilt, b.cfg.MaxTilt)
	}
}

// integrate clamps velocity to the terminal speed in both directions and moves the bird.
func (b *Bird) integrate() {
	b.Velocity = core.ClampF(b.Velocity, -b.cfg.TerminalVelocity, b.cfg.TerminalVelocity)
	b.Y -= b.Velocity
}

// Animate advances the flap cycle. A nose-diving bird glides on a fixed frame.
func (b *Bird) Animate() {
	if b.Tilt <= b.cfg.MinTilt {
		b.Frame = GlideFrame
		return
	}
	b.animTicks++
	if b.animTicks >= b.cfg.FlapRate {
		b.Frame = (b.Frame + 1) % assets.FrameCount
		b.animTicks = 0
	}
}

// Mask returns the collision mask for the current frame and tilt.
func (b *Bird) Mask(p assets.Provider) *core.Mask {
	return p.BirdMask(b.Frame, b.Tilt)
}

// Rect returns the bounding box of the rotated sprite anchored at the bird's position.
func (b *Bird) Rect(p assets.Provider) core.Rect {
	m := b.Mask(p)
	return core.RectAt(b.X, b.Y, m.Width(), m.Height())
}
