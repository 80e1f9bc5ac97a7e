package evolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/vovakirdan/flappy-neat/internal/assets"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

// Match runs saved models or baseline policies against each other in one
// test session and ranks them.
type Match struct {
	Config   config.FlappyConfig
	Assets   assets.Provider
	Entrants []flappy.AgentSpec

	TickRate int
	Watch    func(w *flappy.World, res flappy.TickResult)
}

// Run plays the session to the end and returns the rankings, best first.
// A cancelled match still returns the rankings frozen so far, survivors
// included, alongside the context error.
func (m *Match) Run(ctx context.Context, seed int64) ([]flappy.Ranking, error) {
	if len(m.Entrants) == 0 {
		return nil, errors.New("evolve: match without entrants")
	}
	w, err := flappy.NewWorld(m.Config, m.Assets, flappy.ModeTest, seed)
	if err != nil {
		return nil, fmt.Errorf("evolve: %w", err)
	}
	if _, err := w.Spawn(m.Entrants...); err != nil {
		return nil, fmt.Errorf("evolve: %w", err)
	}

	r := &flappy.Runner{
		World:    w,
		TickRate: m.TickRate,
		Workers:  m.Config.Training.Workers,
	}
	if m.Watch != nil {
		r.OnTick = func(res flappy.TickResult) { m.Watch(w, res) }
	}
	if _, err := r.Run(ctx); err != nil {
		w.Stop()
		return w.Rankings(), err
	}
	return w.Rankings(), nil
}
