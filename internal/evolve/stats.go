package evolve

import (
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

// GenerationStats summarizes one evaluated generation.
type GenerationStats struct {
	Generation    int
	Population    int
	Score         int // Pipes cleared by the session
	Ticks         int
	Reason        flappy.EndReason
	BestID        int
	BestFitness   float64
	MeanFitness   float64
	StdFitness    float64
	MedianFitness float64
	WorstFitness  float64
	Crashes       map[flappy.CrashKind]int
	Elapsed       time.Duration
}

// ReachedCap reports whether the session ended at the score cap.
func (s GenerationStats) ReachedCap() bool {
	return s.Reason == flappy.EndScoreCap
}

// summarize computes fitness statistics over the frozen rankings of a session.
func summarize(gen int, rankings []flappy.Ranking) GenerationStats {
	s := GenerationStats{
		Generation: gen,
		Population: len(rankings),
		Crashes:    make(map[flappy.CrashKind]int),
	}
	if len(rankings) == 0 {
		return s
	}

	fitness := make([]float64, len(rankings))
	for i, r := range rankings {
		fitness[i] = r.Fitness
		s.Crashes[r.Crash]++
		s.Ticks = max(s.Ticks, r.Ticks)
		s.Score = max(s.Score, r.Score)
	}

	best := 0
	for i := range rankings {
		if rankings[i].Fitness > rankings[best].Fitness {
			best = i
		}
	}
	s.BestID = rankings[best].ID
	if g, ok := rankings[best].Ref.(*Genome); ok {
		s.BestID = g.ID
	}

	sorted := slices.Clone(fitness)
	slices.Sort(sorted)
	s.BestFitness = sorted[len(sorted)-1]
	s.WorstFitness = sorted[0]
	s.MeanFitness = stat.Mean(fitness, nil)
	s.MedianFitness = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	if len(fitness) > 1 {
		s.StdFitness = stat.StdDev(fitness, nil)
	}
	if math.IsNaN(s.StdFitness) {
		s.StdFitness = 0
	}
	return s
}
