// Package flappy implements the Flappy Bird simulation: bird physics, the
// pipe pool, the scrolling ground, pixel-mask collision and the per-tick
// session protocol shared by human play, training and testing.
//
// The simulation has no clock. A World advances only when Tick is called
// with one decision per live agent; a Runner adds pacing, parallel decision
// making and cancellation on top.
package flappy

import (
	"fmt"

	"github.com/vovakirdan/flappy-neat/internal/assets"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// ID is the game identifier used for score storage.
const ID = "flappy"

// Game adapts a single-agent World to keyboard play.
type Game struct {
	cfg      config.FlappyConfig
	provider assets.Provider
	style    Style
	world    *World
	paused   bool
}

// NewGame validates cfg and prepares a game; call Reset before stepping.
func NewGame(cfg config.FlappyConfig, provider assets.Provider) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flappy: %w", err)
	}
	return &Game{
		cfg:      cfg,
		provider: provider,
		style:    DefaultStyle(cfg.Bird.Color, cfg.Pipe.Color),
	}, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Bird"
}

// Reset starts a fresh session with the runtime seed.
func (g *Game) Reset(rc core.RuntimeConfig) error {
	w, err := NewWorld(g.cfg, g.provider, ModePlay, rc.Seed)
	if err != nil {
		return err
	}
	if _, err := w.Spawn(AgentSpec{Label: "player"}); err != nil {
		return err
	}
	g.world = w
	g.paused = false
	return nil
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.world.Phase() == PhaseEnded {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) && g.world.Phase() == PhaseRunning {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.world.Tick([]core.Decision{in.Decision()})
	return core.StepResult{State: g.State()}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	RenderSnapshot(dst, g.world.Snapshot(), g.style)

	switch {
	case g.world.Phase() == PhaseWaiting:
		DrawMessage(dst, "FLAPPY BIRD", "Press SPACE to flap")
	case g.paused:
		DrawMessage(dst, "PAUSED", "Press P to resume")
	case g.world.Phase() == PhaseEnded:
		DrawMessage(dst, "GAME OVER", fmt.Sprintf("Score: %d  |  Press R to restart", g.world.Score()))
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.world.Score(),
		Waiting:  g.world.Phase() == PhaseWaiting,
		GameOver: g.world.Phase() == PhaseEnded,
		Paused:   g.paused,
	}
}

// World exposes the underlying session.
func (g *Game) World() *World {
	return g.world
}

// ScoreKey is the score table for a difficulty preset. Normal play uses ID.
func ScoreKey(preset config.Preset) string {
	if preset == "" || preset == config.PresetNormal {
		return ID
	}
	return ID + "-" + string(preset)
}
