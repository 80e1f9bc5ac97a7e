package flappy

import (
	"strings"
	"testing"

	"github.com/vovakirdan/flappy-neat/internal/assets"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

func newTestGame(t *testing.T, seed int64) *Game {
	t.Helper()
	cfg := config.DefaultFlappyConfig()
	g, err := NewGame(cfg, assets.Procedural(cfg.Assets))
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	rc := core.DefaultConfig()
	rc.Seed = seed
	if err := g.Reset(rc); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	return g
}

func press(actions ...core.Action) core.InputFrame {
	var in core.InputFrame
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestGameDeterminism(t *testing.T) {
	g1 := newTestGame(t, 12345)
	g2 := newTestGame(t, 12345)

	for i := 0; i < 200; i++ {
		in := core.InputFrame{}
		if i%12 == 0 {
			in = press(core.ActionJump)
		}
		s1 := g1.Step(in).State
		s2 := g2.Step(in).State
		if s1 != s2 {
			t.Fatalf("step %d: states differ: %+v vs %+v", i, s1, s2)
		}
	}

	p1, p2 := g1.World().Course().Pipes(), g2.World().Course().Pipes()
	for i := range p1 {
		if p1[i].X != p2[i].X || p1[i].LowerY != p2[i].LowerY {
			t.Errorf("pipe %d differs: %+v vs %+v", i, p1[i], p2[i])
		}
	}
}

func TestGameWaitsForFirstFlap(t *testing.T) {
	g := newTestGame(t, 1)

	if !g.State().Waiting {
		t.Fatal("new game should be waiting")
	}
	for i := 0; i < 30; i++ {
		g.Step(core.InputFrame{})
	}
	if !g.State().Waiting {
		t.Error("game should keep waiting without a flap")
	}

	g.Step(press(core.ActionJump))
	if g.State().Waiting {
		t.Error("flap should start the game")
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t, 1)

	// Pausing is ignored while waiting
	g.Step(press(core.ActionPause))
	if g.State().Paused {
		t.Fatal("pause toggled while waiting")
	}

	g.Step(press(core.ActionJump))
	g.Step(press(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused")
	}

	tick := g.World().TickCount()
	for i := 0; i < 5; i++ {
		g.Step(core.InputFrame{})
	}
	if g.World().TickCount() != tick {
		t.Errorf("world advanced while paused: %d -> %d", tick, g.World().TickCount())
	}

	g.Step(press(core.ActionPause))
	if g.State().Paused {
		t.Error("expected resume")
	}
}

func TestGameOverAndReset(t *testing.T) {
	g := newTestGame(t, 1)
	g.Step(press(core.ActionJump))

	for i := 0; i < 200 && !g.State().GameOver; i++ {
		g.Step(core.InputFrame{})
	}
	if !g.State().GameOver {
		t.Fatal("idle bird should hit the ground")
	}

	tick := g.World().TickCount()
	g.Step(press(core.ActionJump))
	if g.World().TickCount() != tick {
		t.Error("steps after game over must be ignored")
	}

	if err := g.Reset(core.DefaultConfig()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if st := g.State(); st.GameOver || !st.Waiting || st.Score != 0 {
		t.Errorf("State() after reset = %+v", st)
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, 1)
	screen := core.NewScreen(60, 24)

	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "FLAPPY BIRD") {
		t.Error("waiting screen should show the title")
	}
	if !strings.ContainsRune(out, GroundEdge) {
		t.Error("ground edge not drawn")
	}
	if !strings.Contains(out, "Score: 0") {
		t.Error("HUD not drawn")
	}

	g.Step(press(core.ActionJump))
	g.Render(screen)
	out = screen.String()
	if strings.Contains(out, "FLAPPY BIRD") {
		t.Error("title should disappear once running")
	}
	if !strings.ContainsRune(out, BirdRiseChar) {
		t.Error("rising bird not drawn")
	}
}
