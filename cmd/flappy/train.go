package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
	"github.com/vovakirdan/flappy-neat/internal/storage"
	"github.com/vovakirdan/flappy-neat/internal/telemetry"
)

var (
	flagGenerations int
	flagPopulation  int
	flagWorkers     int
	flagWatch       bool
	flagModelName   string
	flagNoSave      bool
	flagTelemetry   string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Evolve a population and save the best genome",
	Long: `Evolve a population of feed-forward networks against the simulation.

Every generation flies one course seeded with the session seed plus the
generation number, so a run is reproducible. Training stops after the
configured number of generations, or as soon as a generation reaches the
score cap. The fittest genome seen is saved as a model named after its
fitness (winner-<fitness>) unless --name is given.

Per-generation statistics go to the database and, with --telemetry, to
generations.csv in that directory.

Examples:
  flappy train
  flappy train --generations 50 --population 150 --workers 4
  flappy train --watch --preset easy
  flappy train --telemetry ./out --name champion`,
	Args: cobra.NoArgs,
	RunE: runTrain,
}

func init() {
	trainCmd.Flags().IntVar(&flagGenerations, "generations", 0, "Generations to run (0 = config value)")
	trainCmd.Flags().IntVar(&flagPopulation, "population", 0, "Population size (0 = config value)")
	trainCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel decision workers (0 = config value)")
	trainCmd.Flags().BoolVar(&flagWatch, "watch", false, "Render training live at the session tick rate")
	trainCmd.Flags().StringVar(&flagModelName, "name", "", "Name of the saved model (default winner-<fitness>)")
	trainCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not save the best genome")
	trainCmd.Flags().StringVar(&flagTelemetry, "telemetry", "", "Directory for CSV telemetry (default: config telemetry_dir)")
}

func runTrain(_ *cobra.Command, _ []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	cfg := sess.cfg
	if flagGenerations > 0 {
		cfg.Training.Generations = flagGenerations
	}
	if flagPopulation > 0 {
		cfg.Training.Population = flagPopulation
	}
	if flagWorkers > 0 {
		cfg.Training.Workers = flagWorkers
	}
	if flagTelemetry != "" {
		cfg.Training.TelemetryDir = flagTelemetry
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := uuid.NewString()
	runLog := logger.With("run", runID[:8])

	var reporters evolve.Reporters

	store := openStore()
	if store != nil {
		defer store.Close()
		yml, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		if err := store.CreateRun(storage.Run{
			ID:     runID,
			Seed:   cfg.Session.Seed,
			Preset: string(sess.preset),
			Config: string(yml),
		}); err != nil {
			return err
		}
		reporters = append(reporters, store.Recorder(runID))
	}

	out, err := telemetry.NewOutputManager(cfg.Training.TelemetryDir, runID)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}
	if out != nil {
		reporters = append(reporters, out)
	}

	trainer := &evolve.Trainer{
		Config:   cfg,
		Assets:   sess.assets,
		Logger:   runLog.WithPrefix("train"),
		Reporter: reporters,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runLog.Info("training",
		"population", cfg.Training.Population,
		"generations", cfg.Training.Generations,
		"seed", cfg.Session.Seed,
		"preset", sess.preset,
	)
	start := time.Now()

	var res evolve.Result
	if flagWatch {
		trainer.Logger = nil // Keep the alternate screen clean
		trainer.TickRate = cfg.Session.TickRate
		w, h := termSize()
		style := flappy.DefaultStyle(cfg.Bird.Color, cfg.Pipe.Color)
		err = tui.Watch(ctx, "training", style, w, h, func(ctx context.Context, send func(tui.FrameMsg)) error {
			trainer.Watch = func(world *flappy.World, _ flappy.TickResult) {
				gen := world.Seed() - cfg.Session.Seed
				send(tui.FrameMsg{
					Snapshot: world.Snapshot(),
					Status:   fmt.Sprintf("generation %d/%d", gen+1, cfg.Training.Generations),
				})
			}
			var runErr error
			res, runErr = trainer.Run(ctx)
			return runErr
		})
	} else {
		res, err = trainer.Run(ctx)
	}

	cancelled := errors.Is(err, context.Canceled)
	if err != nil && !cancelled {
		return err
	}
	if cancelled {
		runLog.Warn("training interrupted", "generations", len(res.History))
	}

	if res.Best == nil {
		return nil
	}

	runLog.Info("training finished",
		"reason", res.Reason,
		"generations", len(res.History),
		"best", humanize.FtoaWithDigits(res.Best.Fitness, 2),
		"score", humanize.Comma(int64(res.Best.Score)),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	if store == nil {
		return nil
	}
	if err := store.FinishRun(runID, len(res.History), res.Best.Fitness, res.Reason.String()); err != nil {
		return err
	}
	if flagNoSave {
		return nil
	}

	name := flagModelName
	if name == "" {
		name = storage.DefaultModelName(res.Best.Fitness)
	}
	if err := store.SaveModel(storage.Model{Name: name, RunID: runID, Genome: res.Best}); err != nil {
		return err
	}
	runLog.Info("model saved", "name", name, "fitness", humanize.FtoaWithDigits(res.Best.Fitness, 2))
	return nil
}
