package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

var flagClearScores bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Browse high scores, models and runs",
	Long: `In a terminal, open an interactive board with high scores for each
preset, saved models and training runs. Otherwise print the top 10 scores
for --preset.

Examples:
  flappy scores
  flappy scores --preset hard > hard.txt
  flappy scores --preset easy --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClearScores, "clear", false, "Delete every score of --preset")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return err
	}
	key := flappy.ScoreKey(preset)

	if flagClearScores {
		if err := store.ClearScores(key); err != nil {
			return err
		}
		logger.Info("scores cleared", "preset", preset)
		return nil
	}

	if isTerminal() {
		w, h := termSize()
		return tui.RunScoreboard(store, w, h)
	}

	scores, err := store.TopScores(key, 10)
	if err != nil {
		return err
	}
	fmt.Printf("High Scores - Flappy Bird (%s)\n\n", preset)
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}
	fmt.Println(tui.ScoresTable(scores))

	stats, err := store.GetGameStats(key)
	if err == nil {
		fmt.Printf("\n%d games, average %.1f, best %d\n", stats.GamesCount, stats.AvgScore, stats.HighScore)
	}
	return nil
}
