// Package evolve trains flappy agents with a simple generational
// evolutionary loop: every genome in a population flies the same course,
// the session's fitness becomes the genome's fitness, and the next
// generation is bred by elitism, tournament selection and gaussian mutation.
package evolve

import (
	"fmt"

	"github.com/vovakirdan/flappy-neat/internal/brain"
)

// Genome is a fixed-topology network parameter vector with its last result.
type Genome struct {
	ID         int       `msgpack:"id"`
	Generation int       `msgpack:"generation"`
	Hidden     int       `msgpack:"hidden"`
	Params     []float64 `msgpack:"params"`
	Fitness    float64   `msgpack:"fitness"`
	Score      int       `msgpack:"score"`
}

// Layout returns the network layout the parameters are laid out for.
func (g *Genome) Layout() brain.Layout {
	return brain.DefaultLayout(g.Hidden)
}

// Network builds the network the genome encodes.
func (g *Genome) Network() (*brain.FeedForward, error) {
	net, err := brain.NewFeedForward(g.Layout(), g.Params)
	if err != nil {
		return nil, fmt.Errorf("evolve: genome %d: %w", g.ID, err)
	}
	return net, nil
}

// Clone returns a deep copy.
func (g *Genome) Clone() *Genome {
	c := *g
	c.Params = append([]float64(nil), g.Params...)
	return &c
}

// better reports whether a ranks above b: fitness first, then score.
func better(a, b *Genome) bool {
	if a.Fitness != b.Fitness {
		return a.Fitness > b.Fitness
	}
	return a.Score > b.Score
}
