package flappy

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/vovakirdan/flappy-neat/internal/assets"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

func newTestWorld(t *testing.T, cfg config.FlappyConfig, mode Mode, n int) (*World, []*Agent) {
	t.Helper()
	w, err := NewWorld(cfg, assets.Procedural(cfg.Assets), mode, 1)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	specs := make([]AgentSpec, n)
	for i := range specs {
		specs[i] = AgentSpec{Label: fmt.Sprintf("agent-%d", i+1), Ref: i + 1}
	}
	agents, err := w.Spawn(specs...)
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	return w, agents
}

func all(n int, d core.Decision) []core.Decision {
	out := make([]core.Decision, n)
	for i := range out {
		out[i] = d
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.FlappyConfig)
	}{
		{"zero width", func(c *config.FlappyConfig) { c.World.Width = 0 }},
		{"negative height", func(c *config.FlappyConfig) { c.World.Height = -5 }},
		{"gap fills range", func(c *config.FlappyConfig) { c.Pipe.Gap = 400 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultFlappyConfig()
			tc.mutate(&cfg)
			_, err := NewWorld(cfg, assets.Procedural(config.DefaultFlappyConfig().Assets), ModeTrain, 1)
			if !errors.Is(err, config.ErrInvalid) {
				t.Errorf("NewWorld() error = %v, expected ErrInvalid", err)
			}
		})
	}

	if _, err := NewWorld(config.DefaultFlappyConfig(), nil, ModePlay, 1); err == nil {
		t.Error("expected error for nil provider")
	}
}

func TestSpawnPoint(t *testing.T) {
	_, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 2)
	for _, a := range agents {
		if a.Bird.X != 110 || a.Bird.Y != 256 {
			t.Errorf("agent %d spawned at (%v, %v), expected (110, 256)", a.ID, a.Bird.X, a.Bird.Y)
		}
	}
	if agents[0].ID == agents[1].ID {
		t.Error("agent IDs must be unique")
	}
}

func TestWaitingPhase(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModePlay, 1)
	pipeX := w.Course().Pipes()[0].X

	for i := 0; i < 10; i++ {
		res := w.Tick(all(1, core.NoJump))
		if res.Phase != PhaseWaiting {
			t.Fatalf("Phase = %v, expected waiting", res.Phase)
		}
	}
	if agents[0].Bird.Y != 256 || w.Course().Pipes()[0].X != pipeX || w.TickCount() != 0 {
		t.Error("nothing but animation may change while waiting")
	}
	if agents[0].Bird.Frame != 2 {
		t.Errorf("Frame = %d, expected 2 after 10 animated ticks", agents[0].Bird.Frame)
	}

	res := w.Tick(all(1, core.Jump))
	if res.Phase != PhaseRunning {
		t.Fatalf("Phase = %v, expected running after the first jump", res.Phase)
	}
	if agents[0].Bird.Y != 245.5 {
		t.Errorf("first jump should apply on the starting tick, Y = %v", agents[0].Bird.Y)
	}
	if w.Course().Pipes()[0].X != pipeX-5 {
		t.Errorf("pipes should advance once running, X = %v", w.Course().Pipes()[0].X)
	}
}

func TestHarnessStartsImmediately(t *testing.T) {
	for _, mode := range []Mode{ModeTrain, ModeTest} {
		w, _ := newTestWorld(t, config.DefaultFlappyConfig(), mode, 3)
		if res := w.Tick(all(3, core.NoJump)); res.Phase != PhaseRunning || res.Tick != 1 {
			t.Errorf("%v: first tick = %+v, expected running tick 1", mode, res)
		}
	}
}

// hover jumps whenever the bird drops below y.
func hover(y float64) func(b *Bird) core.Decision {
	return func(b *Bird) core.Decision {
		if b.Y > y {
			return core.Jump
		}
		return core.NoJump
	}
}

func TestDeterminism(t *testing.T) {
	type frame struct {
		y, v, tilt float64
	}
	run := func() ([][]frame, int) {
		w, _ := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 3)
		var trace [][]frame
		for tick := 0; tick < 400 && w.Phase() != PhaseEnded; tick++ {
			ds := make([]core.Decision, len(w.Agents()))
			row := make([]frame, len(w.Agents()))
			for i, a := range w.Agents() {
				obs := w.Observe(a)
				if obs[2] > -float64(10*(i+1)) {
					ds[i] = core.Jump
				}
				row[i] = frame{a.Bird.Y, a.Bird.Velocity, a.Bird.Tilt}
			}
			trace = append(trace, row)
			w.Tick(ds)
		}
		return trace, w.Score()
	}

	t1, s1 := run()
	t2, s2 := run()
	if s1 != s2 {
		t.Fatalf("scores differ: %d vs %d", s1, s2)
	}
	if len(t1) != len(t2) {
		t.Fatalf("trace lengths differ: %d vs %d", len(t1), len(t2))
	}
	for i := range t1 {
		if len(t1[i]) != len(t2[i]) {
			t.Fatalf("tick %d: live counts differ", i)
		}
		for j := range t1[i] {
			if t1[i][j] != t2[i][j] {
				t.Fatalf("tick %d agent %d: %+v vs %+v", i, j, t1[i][j], t2[i][j])
			}
		}
	}
}

func TestScoreIncrementsOncePerPipe(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Pipe.Count = 1
	cfg.Pipe.FirstX = 100
	cfg.Assets.PipeWidth = 50

	w, agents := newTestWorld(t, cfg, ModeTrain, 1)
	bird := agents[0].Bird
	bird.X = 50
	pipe := &w.Course().pipes[0]
	pipe.LowerY = 320 // Opening spans [185, 320)

	decide := hover(270)
	for tick := 1; tick <= 29; tick++ {
		res := w.Tick([]core.Decision{decide(bird)})
		if res.Alive != 1 {
			t.Fatalf("tick %d: agent crashed (%+v) at y %v", tick, res.Removed, bird.Y)
		}

		want := 0
		if tick >= 21 {
			want = 1 // Trailing edge at -5 + 50 < 50
		}
		if res.Score != want {
			t.Fatalf("tick %d: Score = %d, expected %d (pipe x %v)", tick, res.Score, want, pipe.X)
		}
		if (tick == 21) != (res.Passed == 1) {
			t.Fatalf("tick %d: Passed = %d", tick, res.Passed)
		}
		if tick >= 21 && !pipe.Passed {
			t.Fatalf("tick %d: pipe should stay passed until recycled", tick)
		}
	}
}

func TestBaseCollisionFreezesRanking(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 1)
	agents[0].Bird.Y = float64(w.Ground().Y())

	res := w.Tick(all(1, core.NoJump))

	if res.Alive != 0 || len(w.Agents()) != 0 {
		t.Fatalf("Alive = %d, expected 0", res.Alive)
	}
	if res.Phase != PhaseEnded || res.Reason != EndExtinct {
		t.Errorf("Phase = %v reason %v, expected ended by extinction", res.Phase, res.Reason)
	}
	if len(res.Removed) != 1 || res.Removed[0].Crash != CrashBase {
		t.Fatalf("Removed = %+v, expected one base crash", res.Removed)
	}

	rankings := w.Rankings()
	if len(rankings) != 1 {
		t.Fatalf("len(Rankings()) = %d, expected 1", len(rankings))
	}
	if rankings[0].Fitness != -10 {
		t.Errorf("Fitness = %v, expected -10 applied once", rankings[0].Fitness)
	}

	// Ended sessions ignore further ticks
	res = w.Tick(nil)
	if res.Tick != 1 || len(w.Rankings()) != 1 || w.Rankings()[0].Fitness != -10 {
		t.Errorf("tick after end changed state: %+v", res)
	}
}

func TestRemovalKeepsRecordsAligned(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 5)
	groundY := float64(w.Ground().Y())
	agents[1].Bird.Y = groundY
	agents[3].Bird.Y = groundY

	res := w.Tick(all(5, core.NoJump))

	if res.Alive != 3 {
		t.Fatalf("Alive = %d, expected 3", res.Alive)
	}
	wantIDs := []int{1, 3, 5}
	for i, a := range w.Agents() {
		if a.ID != wantIDs[i] {
			t.Errorf("agent %d ID = %d, expected %d", i, a.ID, wantIDs[i])
		}
		if a.Ref != a.ID || a.Label != fmt.Sprintf("agent-%d", a.ID) {
			t.Errorf("agent %d carries Ref %v Label %q", a.ID, a.Ref, a.Label)
		}
		if !approx(a.Fitness, 0.1) {
			t.Errorf("agent %d Fitness = %v, expected 0.1", a.ID, a.Fitness)
		}
	}

	removed := map[int]bool{}
	for _, r := range res.Removed {
		removed[r.ID] = true
		if r.Ref != r.ID || r.Crash != CrashBase || r.Fitness != -10 {
			t.Errorf("ranking %+v is misaligned", r)
		}
	}
	if !removed[2] || !removed[4] || len(removed) != 2 {
		t.Errorf("removed = %v, expected agents 2 and 4", removed)
	}
}

func TestPipeCollision(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 1)
	bird := agents[0].Bird
	pipe := &w.Course().pipes[0]
	pipe.X = bird.X + 5 // Lines up with the bird after advancing
	pipe.LowerY = 270   // Bird spans [257, 281) after one idle tick

	res := w.Tick(all(1, core.NoJump))
	if len(res.Removed) != 1 || res.Removed[0].Crash != CrashPipe {
		t.Fatalf("Removed = %+v, expected a pipe crash", res.Removed)
	}
	if res.Removed[0].Fitness != -1 {
		t.Errorf("Fitness = %v, expected -1", res.Removed[0].Fitness)
	}
}

func TestUpperPipeCollision(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 1)
	bird := agents[0].Bird
	pipe := &w.Course().pipes[0]
	pipe.X = bird.X + 5
	pipe.LowerY = 257 + 135 + 10 // Upper half ends at y 267

	res := w.Tick(all(1, core.NoJump))
	if len(res.Removed) != 1 || res.Removed[0].Crash != CrashPipe {
		t.Fatalf("Removed = %+v, expected a pipe crash", res.Removed)
	}
}

func TestSkyCrash(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 1)
	bird := agents[0].Bird
	bird.Y = -30
	pipe := &w.Course().pipes[0]
	pipe.X = bird.X - 10 + 5 // Bird x inside the span after advancing
	pipe.LowerY = 500        // Upper half starts at y 45, clear of the bird

	res := w.Tick(all(1, core.NoJump))
	if len(res.Removed) != 1 || res.Removed[0].Crash != CrashSky {
		t.Fatalf("Removed = %+v, expected a sky crash", res.Removed)
	}
	if res.Removed[0].Fitness != -10 {
		t.Errorf("Fitness = %v, expected -10", res.Removed[0].Fitness)
	}
}

func TestGapPassesWithoutCollision(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 1)
	bird := agents[0].Bird
	pipe := &w.Course().pipes[0]
	pipe.X = bird.X + 5
	pipe.LowerY = 320 // Opening [185, 320) holds the bird

	if res := w.Tick(all(1, core.NoJump)); res.Alive != 1 {
		t.Fatalf("bird inside the gap crashed: %+v", res.Removed)
	}
}

func TestScoreCapEndsSession(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Session.ScoreCap = 1

	w, agents := newTestWorld(t, cfg, ModeTrain, 3)
	pipe := &w.Course().pipes[0]
	pipe.X = agents[0].Bird.X - 53 + 5 // Cleared as soon as it advances

	res := w.Tick(all(3, core.NoJump))
	if res.Score != 1 || res.Passed != 1 {
		t.Fatalf("Score = %d Passed = %d, expected 1", res.Score, res.Passed)
	}
	if res.Phase != PhaseEnded || res.Reason != EndScoreCap {
		t.Fatalf("Phase = %v reason %v, expected ended by score cap", res.Phase, res.Reason)
	}

	rankings := w.Rankings()
	if len(rankings) != 3 {
		t.Fatalf("len(Rankings()) = %d, expected survivors frozen", len(rankings))
	}
	for _, r := range rankings {
		if r.Crash != CrashNone || r.Score != 1 || !approx(r.Fitness, 5.1) {
			t.Errorf("ranking %+v, expected survivor with score 1 and fitness 5.1", r)
		}
	}
}

func TestPlayModeIgnoresScoreCapAndFitness(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	cfg.Session.ScoreCap = 1

	w, agents := newTestWorld(t, cfg, ModePlay, 1)
	w.Course().pipes[0].X = agents[0].Bird.X - 53 + 5

	res := w.Tick(all(1, core.Jump))
	if res.Score != 1 || res.Phase != PhaseRunning {
		t.Errorf("Score = %d Phase = %v, expected 1 and still running", res.Score, res.Phase)
	}
	if agents[0].Fitness != 0 {
		t.Errorf("Fitness = %v, expected 0 in play mode", agents[0].Fitness)
	}
}

func TestTestModeSurviveBonus(t *testing.T) {
	cfg := config.DefaultFlappyConfig()

	w, agents := newTestWorld(t, cfg, ModeTest, 1)
	w.Tick(all(1, core.Jump))
	if agents[0].Fitness != 0 {
		t.Errorf("Fitness = %v, expected no survive bonus in test mode", agents[0].Fitness)
	}

	cfg.Fitness.SurviveInTest = true
	w, agents = newTestWorld(t, cfg, ModeTest, 1)
	w.Tick(all(1, core.Jump))
	if !approx(agents[0].Fitness, 0.1) {
		t.Errorf("Fitness = %v, expected 0.1 with survive_in_test", agents[0].Fitness)
	}
}

func TestRankingsOrder(t *testing.T) {
	r := []Ranking{
		{ID: 1, Score: 2, Fitness: 3},
		{ID: 2, Score: 5, Fitness: 1},
		{ID: 3, Score: 2, Fitness: 9},
		{ID: 4, Score: 2, Fitness: 9},
	}
	SortRankings(r)

	want := []int{2, 3, 4, 1}
	for i := range want {
		if r[i].ID != want[i] {
			t.Fatalf("order = %v, expected IDs %v", r, want)
		}
	}
}

func TestTickPanicsOnDecisionCountMismatch(t *testing.T) {
	w, _ := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	w.Tick(all(1, core.NoJump))
}

func TestSpawnAfterStartFails(t *testing.T) {
	w, _ := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 1)
	w.Tick(all(1, core.Jump))
	if _, err := w.Spawn(AgentSpec{}); err == nil {
		t.Error("expected error spawning into a running session")
	}
}

func TestStopFreezesSurvivors(t *testing.T) {
	w, _ := newTestWorld(t, config.DefaultFlappyConfig(), ModeTest, 2)
	w.Tick(all(2, core.Jump))
	w.Stop()

	if w.Phase() != PhaseEnded {
		t.Errorf("Phase = %v, expected ended", w.Phase())
	}
	if len(w.Rankings()) != 2 {
		t.Errorf("len(Rankings()) = %d, expected 2", len(w.Rankings()))
	}
}

func TestObserve(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 1)
	pipe := &w.Course().pipes[0]
	pipe.LowerY = 300

	obs := w.Observe(agents[0])
	// y 256, height 24, upper y 300 - 135 - 320 = -155
	want := core.Observation{268, -155 - 256, 280 - 300}
	if obs != want {
		t.Errorf("Observe() = %v, expected %v", obs, want)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	w, agents := newTestWorld(t, config.DefaultFlappyConfig(), ModeTrain, 2)
	snap := w.Snapshot()

	if snap.Alive != 2 || len(snap.Agents) != 2 || len(snap.Pipes) != 2 {
		t.Fatalf("Snapshot = %+v", snap)
	}
	if snap.Phase != PhaseWaiting || snap.GroundY != 400 {
		t.Errorf("Phase = %v GroundY = %d", snap.Phase, snap.GroundY)
	}

	snap.Agents[0].Y = 0
	snap.Pipes[0].X = 0
	if agents[0].Bird.Y != 256 || w.Course().Pipes()[0].X == 0 {
		t.Error("mutating a snapshot must not change the world")
	}
}
