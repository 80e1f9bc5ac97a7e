package flappy

import (
	"context"
	"sync"
	"time"

	"github.com/vovakirdan/flappy-neat/internal/core"
)

// parallelThreshold is the minimum agent count before decisions are split
// across workers.
const parallelThreshold = 32

// Runner drives a world with its agents' deciders until the session ends.
type Runner struct {
	World *World

	// TickRate paces the loop in ticks per second. Zero runs unthrottled.
	TickRate int

	// Workers computes decisions concurrently when above one. Decisions are
	// gathered first and applied by a single Tick, so results do not depend
	// on the worker count.
	Workers int

	// OnTick, if set, observes every tick after it is applied.
	OnTick func(TickResult)

	decisions []core.Decision
}

// Decide computes one decision per live agent. Agents without a decider idle.
func (r *Runner) Decide() []core.Decision {
	agents := r.World.Agents()
	n := len(agents)
	if cap(r.decisions) < n {
		r.decisions = make([]core.Decision, n)
	}
	r.decisions = r.decisions[:n]

	if r.Workers <= 1 || n < parallelThreshold {
		r.decideChunk(agents, 0, n)
		return r.decisions
	}

	workers := min(r.Workers, n)
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			r.decideChunk(agents, start, end)
		}(start, end)
	}
	wg.Wait()
	return r.decisions
}

// decideChunk only reads world state and writes its own slice range.
func (r *Runner) decideChunk(agents []*Agent, start, end int) {
	for i := start; i < end; i++ {
		a := agents[i]
		if a.Decider == nil {
			r.decisions[i] = core.NoJump
			continue
		}
		r.decisions[i] = a.Decider.Decide(r.World.Observe(a))
	}
}

// Step decides and applies one tick.
func (r *Runner) Step() TickResult {
	res := r.World.Tick(r.Decide())
	if r.OnTick != nil {
		r.OnTick(res)
	}
	return res
}

// Run steps until the session ends or ctx is cancelled. Cancellation is only
// observed between ticks, so the world is never left mid-tick.
func (r *Runner) Run(ctx context.Context) (TickResult, error) {
	var ticker *time.Ticker
	if r.TickRate > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(r.TickRate))
		defer ticker.Stop()
	}

	r.World.Start()
	var res TickResult
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res = r.Step()
		if res.Ended() {
			return res, nil
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-ticker.C:
			}
		}
	}
}
