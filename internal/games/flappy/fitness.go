package flappy

import (
	"cmp"
	"slices"

	"github.com/vovakirdan/flappy-neat/internal/config"
)

// FitnessRules is the reward signal applied to agent accumulators.
type FitnessRules struct {
	Survive float64 // Per live agent per tick
	Pass    float64 // Per live agent per pipe cleared by the lead agent
	Base    float64 // Penalty for a ground crash
	Sky     float64 // Penalty for escaping above a pipe
	Pipe    float64 // Penalty for a pipe crash
}

// RulesFor derives the rules for mode. Play sessions carry no fitness;
// test sessions only earn the survival bonus when configured to.
func RulesFor(cfg config.FitnessConfig, mode Mode) FitnessRules {
	if mode == ModePlay {
		return FitnessRules{}
	}
	r := FitnessRules{
		Survive: cfg.SurviveBonus,
		Pass:    cfg.PassBonus,
		Base:    cfg.BaseCrashPenalty,
		Sky:     cfg.SkyCrashPenalty,
		Pipe:    cfg.PipeCrashPenalty,
	}
	if mode == ModeTest && !cfg.SurviveInTest {
		r.Survive = 0
	}
	return r
}

// Penalty returns the fitness lost for a crash of kind k.
func (r FitnessRules) Penalty(k CrashKind) float64 {
	switch k {
	case CrashBase:
		return r.Base
	case CrashSky:
		return r.Sky
	case CrashPipe:
		return r.Pipe
	}
	return 0
}

// Ranking is the frozen result of one agent.
type Ranking struct {
	ID      int
	Label   string
	Score   int
	Fitness float64
	Ticks   int
	Crash   CrashKind
	Ref     any
}

// SortRankings orders rankings by score, then fitness, both descending.
// Ties keep their removal order.
func SortRankings(r []Ranking) {
	slices.SortStableFunc(r, func(a, b Ranking) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.Fitness, a.Fitness)
	})
}
