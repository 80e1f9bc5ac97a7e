package evolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flappy-neat/internal/assets"
	"github.com/vovakirdan/flappy-neat/internal/brain"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

// Reporter receives every evaluated generation. best is the fittest genome
// of that generation; it must not be retained after the call returns.
type Reporter interface {
	ReportGeneration(stats GenerationStats, best *Genome) error
}

// Reporters fans a report out to several reporters, stopping at the first
// error.
type Reporters []Reporter

// ReportGeneration implements Reporter.
func (rs Reporters) ReportGeneration(stats GenerationStats, best *Genome) error {
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.ReportGeneration(stats, best); err != nil {
			return err
		}
	}
	return nil
}

// StopReason says why training stopped.
type StopReason uint8

const (
	StopGenerations StopReason = iota // Ran every configured generation
	StopScoreCap                      // A generation reached the score cap
	StopCancelled
)

func (r StopReason) String() string {
	switch r {
	case StopGenerations:
		return "generations"
	case StopScoreCap:
		return "score cap"
	case StopCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result is the outcome of a training run.
type Result struct {
	Best    *Genome // Fittest genome seen in any generation
	History []GenerationStats
	Reason  StopReason
}

// Trainer evolves a population against the flappy simulation.
type Trainer struct {
	Config config.FlappyConfig
	Assets assets.Provider
	Logger *log.Logger

	// Reporter, if set, receives every generation.
	Reporter Reporter

	// TickRate paces sessions for watching. Zero trains unthrottled.
	TickRate int

	// Watch, if set, is called after every tick with the live world.
	Watch func(w *flappy.World, res flappy.TickResult)
}

func (t *Trainer) logger() *log.Logger {
	if t.Logger == nil {
		return log.New(io.Discard)
	}
	return t.Logger
}

// Run trains for Config.Training.Generations generations. Each generation
// flies a course seeded with Session.Seed plus the generation number, so a
// run is reproducible end to end. Training stops early when a generation
// reaches the score cap. On cancellation the partial result is returned with
// the context error.
func (t *Trainer) Run(ctx context.Context) (Result, error) {
	if err := t.Config.Validate(); err != nil {
		return Result{}, fmt.Errorf("evolve: %w", err)
	}
	if t.Assets == nil {
		return Result{}, errors.New("evolve: nil asset provider")
	}

	tc := t.Config.Training
	pop := NewPopulation(tc, rand.New(rand.NewSource(t.Config.Session.Seed)))
	logger := t.logger()

	var res Result
	for gen := 0; gen < tc.Generations; gen++ {
		if gen > 0 {
			pop.Evolve()
		}

		stats, err := t.Evaluate(ctx, pop.Genomes(), gen)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				res.Reason = StopCancelled
			}
			return res, err
		}
		res.History = append(res.History, stats)

		best := pop.Best()
		if res.Best == nil || better(best, res.Best) {
			res.Best = best.Clone()
		}

		logger.Info("generation",
			"gen", gen,
			"best", stats.BestFitness,
			"mean", fmt.Sprintf("%.2f", stats.MeanFitness),
			"score", stats.Score,
			"ticks", stats.Ticks,
			"elapsed", stats.Elapsed.Round(time.Millisecond),
		)
		if t.Reporter != nil {
			if err := t.Reporter.ReportGeneration(stats, best); err != nil {
				return res, fmt.Errorf("evolve: report generation %d: %w", gen, err)
			}
		}

		if stats.ReachedCap() {
			logger.Info("score cap reached, stopping", "gen", gen, "score", stats.Score)
			res.Reason = StopScoreCap
			return res, nil
		}
	}
	res.Reason = StopGenerations
	return res, nil
}

// Evaluate flies every genome in one training session and writes the
// resulting fitness and score back onto the genomes.
func (t *Trainer) Evaluate(ctx context.Context, genomes []*Genome, gen int) (GenerationStats, error) {
	start := time.Now()
	w, err := flappy.NewWorld(t.Config, t.Assets, flappy.ModeTrain, t.Config.Session.Seed+int64(gen))
	if err != nil {
		return GenerationStats{}, fmt.Errorf("evolve: %w", err)
	}

	specs := make([]flappy.AgentSpec, len(genomes))
	for i, g := range genomes {
		net, err := g.Network()
		if err != nil {
			return GenerationStats{}, err
		}
		specs[i] = flappy.AgentSpec{
			Label:   fmt.Sprintf("genome-%d", g.ID),
			Decider: brain.NewDecider(net, t.Config.Training.Threshold),
			Ref:     g,
		}
	}
	if _, err := w.Spawn(specs...); err != nil {
		return GenerationStats{}, fmt.Errorf("evolve: %w", err)
	}

	r := &flappy.Runner{
		World:    w,
		TickRate: t.TickRate,
		Workers:  t.Config.Training.Workers,
	}
	if t.Watch != nil {
		r.OnTick = func(res flappy.TickResult) { t.Watch(w, res) }
	}
	final, err := r.Run(ctx)
	if err != nil {
		return GenerationStats{}, err
	}

	rankings := w.Rankings()
	for _, rk := range rankings {
		g := rk.Ref.(*Genome)
		g.Fitness = rk.Fitness
		g.Score = rk.Score
	}

	stats := summarize(gen, rankings)
	stats.Reason = final.Reason
	stats.Ticks = final.Tick
	stats.Elapsed = time.Since(start)
	return stats, nil
}
