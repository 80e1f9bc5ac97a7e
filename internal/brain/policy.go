package brain

import (
	"math/rand"

	"github.com/vovakirdan/flappy-neat/internal/core"
	"github.com/vovakirdan/flappy-neat/internal/registry"
)

// Baseline policy names.
const (
	PolicyIdle      = "idle"
	PolicyRandom    = "random"
	PolicyHeuristic = "heuristic"
)

// HeuristicMargin is how close, in pixels, the bird's bottom may get to the
// lower pipe before the heuristic flaps.
const HeuristicMargin = 10

func init() {
	registry.Register(PolicyIdle, "never flaps", func(int64) core.Decider {
		return Idle()
	})
	registry.Register(PolicyRandom, "flaps on one tick in eight at random", func(seed int64) core.Decider {
		return NewRandom(seed, 8)
	})
	registry.Register(PolicyHeuristic, "flaps when nearing the lower pipe", func(int64) core.Decider {
		return Heuristic(HeuristicMargin)
	})
}

// Idle returns a decider that never jumps.
func Idle() core.Decider {
	return core.DeciderFunc(func(core.Observation) core.Decision {
		return core.NoJump
	})
}

// Heuristic jumps whenever the bird's bottom is within margin of the next
// lower pipe, or below it.
func Heuristic(margin float64) core.Decider {
	return core.DeciderFunc(func(obs core.Observation) core.Decision {
		if obs[2] > -margin {
			return core.Jump
		}
		return core.NoJump
	})
}

// Random jumps with probability 1/n per tick. It owns its generator, so each
// agent needs its own instance.
type Random struct {
	rng *rand.Rand
	n   int
}

// NewRandom returns a seeded random policy.
func NewRandom(seed int64, n int) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed)), n: max(n, 1)}
}

// Decide implements core.Decider.
func (r *Random) Decide(core.Observation) core.Decision {
	if r.rng.Intn(r.n) == 0 {
		return core.Jump
	}
	return core.NoJump
}
