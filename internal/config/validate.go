package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/flappy-neat/internal/core"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Validate reports every violation in c as one joined error, or nil.
func (c FlappyConfig) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.World.Width <= 0 || c.World.Height <= 0 {
		bad("world dimensions must be positive, got %dx%d", c.World.Width, c.World.Height)
	}
	a := c.Assets
	if a.BirdWidth <= 0 || a.BirdHeight <= 0 {
		bad("bird sprite must be positive, got %dx%d", a.BirdWidth, a.BirdHeight)
	}
	if a.PipeWidth <= 0 || a.PipeHeight <= 0 {
		bad("pipe sprite must be positive, got %dx%d", a.PipeWidth, a.PipeHeight)
	}
	if a.BaseWidth <= 0 || a.BaseHeight <= 0 {
		bad("base sprite must be positive, got %dx%d", a.BaseWidth, a.BaseHeight)
	}
	if a.BaseWidth > 0 && a.BaseWidth < c.World.Width {
		bad("base width %d cannot tile world width %d with two strips", a.BaseWidth, c.World.Width)
	}
	if a.BaseHeight >= c.World.Height {
		bad("base height %d leaves no room above the ground", a.BaseHeight)
	}

	b := c.Bird
	if b.Gravity < 0 {
		bad("bird.gravity must not be negative, got %v", b.Gravity)
	}
	if b.TerminalVelocity <= 0 {
		bad("bird.terminal_velocity must be positive, got %v", b.TerminalVelocity)
	}
	if b.MinTilt > b.MaxTilt {
		bad("bird tilt bounds inverted: min %v > max %v", b.MinTilt, b.MaxTilt)
	}
	if b.TiltUp < b.MinTilt || b.TiltUp > b.MaxTilt {
		bad("bird.tilt_up %v outside [%v, %v]", b.TiltUp, b.MinTilt, b.MaxTilt)
	}
	if b.TiltStep < 0 || b.TiltDelay < 0 {
		bad("bird tilt step and delay must not be negative")
	}
	if b.FlapRate <= 0 {
		bad("bird.flap_rate must be positive, got %d", b.FlapRate)
	}
	if _, ok := core.ParseColor(b.Color); b.Color != "" && !ok {
		bad("bird.color %q is not a known colour", b.Color)
	}

	p := c.Pipe
	if p.Gap <= 0 {
		bad("pipe.gap must be positive, got %d", p.Gap)
	} else if p.Gap >= c.GroundY() {
		bad("pipe.gap %d must be smaller than the vertical range %d", p.Gap, c.GroundY())
	}
	if p.Velocity <= 0 {
		bad("pipe.velocity must be positive, got %v", p.Velocity)
	}
	if p.Count <= 0 {
		bad("pipe.count must be positive, got %d", p.Count)
	}
	if p.Interval < 0 {
		bad("pipe.interval must not be negative, got %d", p.Interval)
	}
	if p.FirstX < 0 {
		bad("pipe.first_x must not be negative, got %v", p.FirstX)
	}
	if p.MinGapRatio <= 0 || p.MaxGapRatio > 1 || p.MinGapRatio > p.MaxGapRatio {
		bad("pipe gap ratios must satisfy 0 < min <= max <= 1, got [%v, %v]", p.MinGapRatio, p.MaxGapRatio)
	}
	if _, ok := core.ParseColor(p.Color); p.Color != "" && !ok {
		bad("pipe.color %q is not a known colour", p.Color)
	}

	if c.Base.Velocity <= 0 {
		bad("base.velocity must be positive, got %v", c.Base.Velocity)
	}

	s := c.Session
	if s.TickRate <= 0 {
		bad("session.tick_rate must be positive, got %d", s.TickRate)
	}
	if s.ScoreCap < 0 {
		bad("session.score_cap must not be negative, got %d", s.ScoreCap)
	}

	t := c.Training
	if t.Population <= 0 {
		bad("training.population must be positive, got %d", t.Population)
	}
	if t.Generations < 0 {
		bad("training.generations must not be negative, got %d", t.Generations)
	}
	if t.Hidden <= 0 {
		bad("training.hidden must be positive, got %d", t.Hidden)
	}
	if t.Elite < 0 || t.Elite > t.Population {
		bad("training.elite must be within [0, %d], got %d", t.Population, t.Elite)
	}
	if t.TournamentSize <= 0 {
		bad("training.tournament_size must be positive, got %d", t.TournamentSize)
	}
	if t.MutationRate < 0 || t.MutationRate > 1 {
		bad("training.mutation_rate must be within [0, 1], got %v", t.MutationRate)
	}
	if t.MutationSigma < 0 || t.WeightLimit <= 0 {
		bad("training mutation sigma must not be negative and weight limit must be positive")
	}
	if t.Workers <= 0 {
		bad("training.workers must be positive, got %d", t.Workers)
	}

	return errors.Join(errs...)
}
