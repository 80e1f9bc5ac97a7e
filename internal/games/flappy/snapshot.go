package flappy

import "github.com/vovakirdan/flappy-neat/internal/core"

// AgentView is the render-facing copy of one agent.
type AgentView struct {
	ID       int
	Label    string
	X, Y     float64
	Velocity float64
	Tilt     float64
	Frame    int
	Fitness  float64
	Rect     core.Rect
}

// PipeView is the render-facing copy of one pipe.
type PipeView struct {
	X      float64
	UpperY int
	LowerY int
	Width  int
	Height int
	Passed bool
}

// Snapshot is a read-only copy of the world for drawing. Mutating it has no
// effect on the session.
type Snapshot struct {
	Width, Height int
	GroundY       int
	Tick          int
	Score         int
	Alive         int
	Phase         Phase
	Mode          Mode
	Agents        []AgentView
	Pipes         []PipeView
	Ground        [2]core.Rect
}

// Snapshot copies the current state.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Width:   w.cfg.World.Width,
		Height:  w.cfg.World.Height,
		GroundY: w.ground.Y(),
		Tick:    w.tick,
		Score:   w.score,
		Alive:   len(w.agents),
		Phase:   w.phase,
		Mode:    w.mode,
		Agents:  make([]AgentView, len(w.agents)),
		Pipes:   make([]PipeView, len(w.course.pipes)),
		Ground:  w.ground.Rects(),
	}
	for i, a := range w.agents {
		s.Agents[i] = AgentView{
			ID:       a.ID,
			Label:    a.Label,
			X:        a.Bird.X,
			Y:        a.Bird.Y,
			Velocity: a.Bird.Velocity,
			Tilt:     a.Bird.Tilt,
			Frame:    a.Bird.Frame,
			Fitness:  a.Fitness,
			Rect:     a.Bird.Rect(w.assets),
		}
	}
	for i := range w.course.pipes {
		p := &w.course.pipes[i]
		s.Pipes[i] = PipeView{
			X:      p.X,
			UpperY: p.UpperY(),
			LowerY: p.LowerY,
			Width:  p.width,
			Height: p.height,
			Passed: p.Passed,
		}
	}
	return s
}
