package evolve

import (
	"math/rand"
	"slices"

	"github.com/vovakirdan/flappy-neat/internal/brain"
	"github.com/vovakirdan/flappy-neat/internal/config"
)

// Population is one generation of genomes plus the breeding parameters.
type Population struct {
	cfg        config.TrainingConfig
	layout     brain.Layout
	rng        *rand.Rand
	genomes    []*Genome
	generation int
	nextID     int
}

// NewPopulation seeds cfg.Population random genomes.
func NewPopulation(cfg config.TrainingConfig, rng *rand.Rand) *Population {
	p := &Population{
		cfg:    cfg,
		layout: brain.DefaultLayout(cfg.Hidden),
		rng:    rng,
	}
	p.genomes = make([]*Genome, cfg.Population)
	for i := range p.genomes {
		p.genomes[i] = p.newGenome(brain.RandomParams(p.layout, rng))
	}
	return p
}

// Genomes returns the current generation in breeding order.
func (p *Population) Genomes() []*Genome { return p.genomes }

// Generation returns the zero-based generation number.
func (p *Population) Generation() int { return p.generation }

// Best returns the fittest genome of the current generation.
func (p *Population) Best() *Genome {
	var best *Genome
	for _, g := range p.genomes {
		if best == nil || better(g, best) {
			best = g
		}
	}
	return best
}

// Evolve replaces the population with the next generation. Fitness values
// from the last evaluation drive selection; the elite survive unchanged.
func (p *Population) Evolve() {
	ranked := slices.Clone(p.genomes)
	slices.SortStableFunc(ranked, func(a, b *Genome) int {
		switch {
		case better(a, b):
			return -1
		case better(b, a):
			return 1
		}
		return 0
	})

	p.generation++
	next := make([]*Genome, 0, len(ranked))
	for _, g := range ranked[:p.cfg.Elite] {
		c := g.Clone()
		c.Generation = p.generation
		next = append(next, c)
	}
	for len(next) < len(ranked) {
		parent := p.tournament(ranked)
		params := slices.Clone(parent.Params)
		p.mutate(params)
		next = append(next, p.newGenome(params))
	}
	p.genomes = next
}

func (p *Population) newGenome(params []float64) *Genome {
	p.nextID++
	return &Genome{
		ID:         p.nextID,
		Generation: p.generation,
		Hidden:     p.layout.Hidden,
		Params:     params,
	}
}

// tournament picks the best of TournamentSize uniform draws.
func (p *Population) tournament(ranked []*Genome) *Genome {
	best := ranked[p.rng.Intn(len(ranked))]
	for i := 1; i < p.cfg.TournamentSize; i++ {
		c := ranked[p.rng.Intn(len(ranked))]
		if better(c, best) {
			best = c
		}
	}
	return best
}

// mutate perturbs each parameter with probability MutationRate and clamps
// the result to ±WeightLimit.
func (p *Population) mutate(params []float64) {
	limit := p.cfg.WeightLimit
	for i := range params {
		if p.rng.Float64() >= p.cfg.MutationRate {
			continue
		}
		params[i] += p.rng.NormFloat64() * p.cfg.MutationSigma
		params[i] = min(max(params[i], -limit), limit)
	}
}
