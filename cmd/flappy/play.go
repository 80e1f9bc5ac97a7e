package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/core"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play with the keyboard",
	Long: `Fly the bird yourself. The course waits until the first flap.

Controls:
  Space/Up/W  - Flap
  P/Esc       - Pause
  R           - Restart (after game over)
  B           - Leave (after game over or while paused)
  Ctrl+S      - Save a text screenshot to ~/.flappy/screenshots
  Q/Ctrl+C    - Quit

Scores are kept per preset.

Examples:
  flappy play
  flappy play --preset easy
  flappy play --config ./my-flappy.yaml --fps 45`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}

	game, err := flappy.NewGame(sess.cfg, sess.assets)
	if err != nil {
		return err
	}

	width, height := termSize()
	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: sess.cfg.Session.TickRate,
		Seed:     sess.cfg.Session.Seed,
	}

	var saver tui.ScoreSaver
	if store := openStore(); store != nil {
		defer store.Close()
		saver = store
	}
	return tui.Run(game, saver, rc, flappy.ScoreKey(sess.preset))
}
