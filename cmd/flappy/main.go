// flappy plays Flappy Bird in the terminal and evolves neural controllers
// that learn to play it.
//
// Usage:
//
//	flappy play              - Play with the keyboard
//	flappy train             - Evolve a population and save the best genome
//	flappy test [model...]   - Race saved models and policies, print rankings
//	flappy models            - List or delete saved models
//	flappy runs              - List training runs
//	flappy scores            - Browse high scores, models and runs
//	flappy serve             - Start SSH server for remote play
//	flappy config            - Print the effective configuration
//
// Global flags:
//
//	--config <path>    - Session config YAML
//	--preset <name>    - Difficulty preset: easy, normal, hard
//	--seed <value>     - RNG seed (0 = config seed, else time based)
//	--fps <rate>       - Tick rate when rendering (0 = config value)
//	--db <path>        - Database path (default: ~/.flappy/flappy.db)
//	--log-level <lvl>  - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappy-neat/internal/assets"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagPreset   string
	flagSeed     int64
	flagFPS      int
	flagDBPath   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "flappy",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy Bird in your terminal, and the networks that learn it",
	Long: `flappy is a terminal Flappy Bird with an evolutionary training harness.

Play it yourself, evolve a population of small neural networks against it,
then race the saved winners against each other and a few baseline policies.

Examples:
  flappy play --preset hard
  flappy train --generations 50 --watch
  flappy test winner-412 heuristic random
  flappy serve --ssh :2222`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to session config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = config seed, or time based)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate when rendering (0 = config tick_rate)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappy/flappy.db", "Path to database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// session is the resolved configuration shared by every command.
type session struct {
	cfg    config.FlappyConfig
	preset config.Preset
	assets assets.Provider
}

// loadSession loads the config, applies the preset and seed flags, and
// builds the sprites.
func loadSession() (*session, error) {
	cfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return nil, err
	}
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return nil, err
	}
	config.ApplyPreset(&cfg, preset)

	switch {
	case flagSeed != 0:
		cfg.Session.Seed = flagSeed
	case cfg.Session.Seed == 0:
		cfg.Session.Seed = time.Now().UnixNano()
	}
	if flagFPS > 0 {
		cfg.Session.TickRate = flagFPS
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := assets.New(cfg.Assets)
	if err != nil {
		return nil, err
	}
	logger.Debug("session loaded", "preset", preset, "seed", cfg.Session.Seed, "sprites", cfg.Assets.SpriteDir)
	return &session{cfg: cfg, preset: preset, assets: provider}, nil
}

// openStore opens the database, or returns nil with a warning when it
// cannot be opened.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// termSize returns the terminal size, falling back to 80x24.
func termSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// isTerminal reports whether stdout is interactive.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
