package flappy

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/flappy-neat/internal/assets"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// Mode selects who drives the session and which rules apply.
type Mode uint8

const (
	ModePlay  Mode = iota // One human-controlled bird, no fitness, no score cap
	ModeTrain             // A population evaluated for fitness
	ModeTest              // Saved models competing for a ranking
)

func (m Mode) String() string {
	switch m {
	case ModePlay:
		return "play"
	case ModeTrain:
		return "train"
	case ModeTest:
		return "test"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Phase is the session lifecycle state.
type Phase uint8

const (
	PhaseWaiting Phase = iota // Agents animate; nothing else moves
	PhaseRunning
	PhaseEnded // Terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// EndReason says why a session ended.
type EndReason uint8

const (
	EndNone     EndReason = iota
	EndExtinct            // No live agents left
	EndScoreCap           // Score reached the configured cap
)

// Agent is one live participant: physics, policy and bookkeeping travel
// together so removal is a single operation.
type Agent struct {
	ID      int
	Label   string
	Bird    *Bird
	Decider core.Decider
	Fitness float64
	Ticks   int
	Ref     any // Caller data, e.g. the genome behind Decider
}

// AgentSpec describes an agent to spawn.
type AgentSpec struct {
	Label   string
	Decider core.Decider
	Ref     any
}

// EventKind identifies a world event.
type EventKind uint8

const (
	EventPass EventKind = iota + 1 // The lead agent cleared a pipe
	EventCrash
)

// Event is emitted by Tick for consumers that track more than the final rankings.
type Event struct {
	Kind    EventKind
	AgentID int // Crash only
	Pipe    int // Pass only: pool index
	Crash   CrashKind
}

// TickResult summarizes one call to Tick.
type TickResult struct {
	Tick    int
	Phase   Phase
	Score   int
	Alive   int
	Passed  int
	Removed []Ranking
	Events  []Event
	Reason  EndReason
}

// Ended reports whether the session finished on this or an earlier tick.
func (r TickResult) Ended() bool {
	return r.Phase == PhaseEnded
}

// World is one session: the agents, the shared course and ground, the score
// and the lifecycle. It is not safe for concurrent use.
type World struct {
	cfg    config.FlappyConfig
	mode   Mode
	assets assets.Provider
	rules  FitnessRules
	rng    *rand.Rand
	seed   int64

	agents   []*Agent
	course   *Course
	ground   *Ground
	score    int
	tick     int
	phase    Phase
	reason   EndReason
	rankings []Ranking
	nextID   int

	spawnX, spawnY float64
}

// NewWorld validates cfg and builds a session in the waiting phase.
func NewWorld(cfg config.FlappyConfig, provider assets.Provider, mode Mode, seed int64) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("flappy: nil asset provider")
	}

	bird, pipe, base := provider.BirdSize(), provider.PipeSize(), provider.BaseSize()
	if base.X < cfg.World.Width || base.Y >= cfg.World.Height {
		return nil, fmt.Errorf("flappy: base sprite %v does not fit world %dx%d", base, cfg.World.Width, cfg.World.Height)
	}
	if cfg.Pipe.Gap >= cfg.World.Height-base.Y {
		return nil, fmt.Errorf("flappy: gap %d must be smaller than the vertical range %d", cfg.Pipe.Gap, cfg.World.Height-base.Y)
	}

	rng := rand.New(rand.NewSource(seed))
	return &World{
		cfg:    cfg,
		mode:   mode,
		assets: provider,
		rules:  RulesFor(cfg.Fitness, mode),
		rng:    rng,
		seed:   seed,
		course: NewCourse(cfg, pipe.X, pipe.Y, rng),
		ground: NewGround(base.X, base.Y, cfg.World.Height, cfg.Base.Velocity),
		phase:  PhaseWaiting,
		spawnX: float64(cfg.World.Width)/2 - float64(bird.X),
		spawnY: float64(cfg.World.Height) / 2,
	}, nil
}

// Spawn adds agents at the spawn point. Agents can only join before the
// session starts.
func (w *World) Spawn(specs ...AgentSpec) ([]*Agent, error) {
	if w.phase != PhaseWaiting {
		return nil, fmt.Errorf("flappy: cannot spawn in phase %v", w.phase)
	}
	out := make([]*Agent, 0, len(specs))
	for _, s := range specs {
		w.nextID++
		a := &Agent{
			ID:      w.nextID,
			Label:   s.Label,
			Bird:    NewBird(w.cfg.Bird, w.spawnX, w.spawnY),
			Decider: s.Decider,
			Ref:     s.Ref,
		}
		w.agents = append(w.agents, a)
		out = append(out, a)
	}
	return out, nil
}

// Agents returns the live agents in stable order. The first is the lead.
func (w *World) Agents() []*Agent { return w.agents }

// Course returns the shared obstacle pool.
func (w *World) Course() *Course { return w.course }

// Ground returns the scrolling ground.
func (w *World) Ground() *Ground { return w.ground }

// Assets returns the injected provider.
func (w *World) Assets() assets.Provider { return w.assets }

// Config returns the session configuration.
func (w *World) Config() config.FlappyConfig { return w.cfg }

func (w *World) Mode() Mode          { return w.mode }
func (w *World) Phase() Phase        { return w.phase }
func (w *World) Score() int          { return w.score }
func (w *World) TickCount() int      { return w.tick }
func (w *World) Seed() int64         { return w.seed }
func (w *World) Reason() EndReason   { return w.reason }
func (w *World) Rules() FitnessRules { return w.rules }

// Start moves a waiting session to running.
func (w *World) Start() {
	if w.phase == PhaseWaiting {
		w.phase = PhaseRunning
	}
}

// Stop ends a running session early, freezing survivors into the rankings.
func (w *World) Stop() {
	if w.phase == PhaseEnded {
		return
	}
	w.freezeSurvivors()
	w.phase = PhaseEnded
}

// Tick advances the session by one step with one decision per live agent,
// in Agents() order. A waiting session starts on the first jump, or on the
// first tick at all outside play mode.
func (w *World) Tick(decisions []core.Decision) TickResult {
	if len(decisions) != len(w.agents) {
		panic(fmt.Sprintf("flappy: %d decisions for %d agents", len(decisions), len(w.agents)))
	}

	switch w.phase {
	case PhaseEnded:
		return w.result(nil, nil, 0)
	case PhaseWaiting:
		if w.mode == ModePlay && !anyJump(decisions) {
			for _, a := range w.agents {
				a.Bird.Animate()
			}
			return w.result(nil, nil, 0)
		}
		w.phase = PhaseRunning
	}

	w.tick++

	// 1-2. Scenery
	w.course.Advance(w.rng)
	w.ground.Advance()

	// 3. Decisions
	for i, a := range w.agents {
		a.Bird.Apply(decisions[i])
		a.Bird.Animate()
		a.Ticks++
	}

	// 4. Collisions, committed after every agent has been tested
	var removed []Ranking
	var events []Event
	crashes := make([]CrashKind, len(w.agents))
	for i, a := range w.agents {
		crashes[i] = Collide(a.Bird, w.ground, w.course.pipes, w.assets)
	}
	live := w.agents[:0]
	for i, a := range w.agents {
		if crashes[i] == CrashNone {
			live = append(live, a)
			continue
		}
		a.Fitness -= w.rules.Penalty(crashes[i])
		r := w.freeze(a, crashes[i])
		removed = append(removed, r)
		events = append(events, Event{Kind: EventCrash, AgentID: a.ID, Crash: crashes[i]})
	}
	clear(w.agents[len(live):])
	w.agents = live

	// 5. Scoring against the survivors
	passed := 0
	if len(w.agents) > 0 {
		lead := w.agents[0].Bird
		for i := range w.course.pipes {
			p := &w.course.pipes[i]
			if p.Passed || lead.X <= p.Right() {
				continue
			}
			p.Passed = true
			w.score++
			passed++
			events = append(events, Event{Kind: EventPass, Pipe: i})
			for _, a := range w.agents {
				a.Fitness += w.rules.Pass
			}
		}
		for _, a := range w.agents {
			a.Fitness += w.rules.Survive
		}
	}

	// 6. Termination
	switch {
	case len(w.agents) == 0:
		w.phase = PhaseEnded
		w.reason = EndExtinct
	case w.mode != ModePlay && w.cfg.Session.ScoreCap > 0 && w.score >= w.cfg.Session.ScoreCap:
		w.freezeSurvivors()
		w.phase = PhaseEnded
		w.reason = EndScoreCap
	}

	return w.result(removed, events, passed)
}

func (w *World) result(removed []Ranking, events []Event, passed int) TickResult {
	return TickResult{
		Tick:    w.tick,
		Phase:   w.phase,
		Score:   w.score,
		Alive:   len(w.agents),
		Passed:  passed,
		Removed: removed,
		Events:  events,
		Reason:  w.reason,
	}
}

func (w *World) freeze(a *Agent, crash CrashKind) Ranking {
	r := Ranking{
		ID:      a.ID,
		Label:   a.Label,
		Score:   w.score,
		Fitness: a.Fitness,
		Ticks:   a.Ticks,
		Crash:   crash,
		Ref:     a.Ref,
	}
	w.rankings = append(w.rankings, r)
	return r
}

func (w *World) freezeSurvivors() {
	for _, a := range w.agents {
		w.freeze(a, CrashNone)
	}
}

// Rankings returns every frozen agent sorted by score then fitness, best first.
// Survivors only appear once the session has ended.
func (w *World) Rankings() []Ranking {
	out := make([]Ranking, len(w.rankings))
	copy(out, w.rankings)
	SortRankings(out)
	return out
}

// Observe builds the decision input for a.
func (w *World) Observe(a *Agent) core.Observation {
	size := w.assets.BirdSize()
	return Observe(a.Bird, size.Y, w.course.NextAhead(a.Bird.X))
}

func anyJump(ds []core.Decision) bool {
	for _, d := range ds {
		if d == core.Jump {
			return true
		}
	}
	return false
}
