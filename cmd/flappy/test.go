package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/brain"
	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
	"github.com/vovakirdan/flappy-neat/internal/registry"
	"github.com/vovakirdan/flappy-neat/internal/storage"
	"github.com/vovakirdan/flappy-neat/internal/telemetry"
)

var (
	flagTestWatch     bool
	flagTestTelemetry string
	flagSurvive       bool
)

var testCmd = &cobra.Command{
	Use:   "test [model|policy...]",
	Short: "Race saved models and baseline policies",
	Long: `Fly several controllers through one shared course and rank them by
score, then fitness. Each argument is a saved model name or one of the
policies listed below. Without arguments every saved model takes part.

Examples:
  flappy test
  flappy test winner-412 winner-380 heuristic
  flappy test --watch --preset hard
  flappy test --telemetry ./out`,
	RunE: runTest,
}

func init() {
	testCmd.Flags().BoolVar(&flagTestWatch, "watch", false, "Render the race live")
	testCmd.Flags().StringVar(&flagTestTelemetry, "telemetry", "", "Directory for telemetry; rankings go to <dir>/test/rankings.csv")
	testCmd.Flags().BoolVar(&flagSurvive, "survive-bonus", false, "Award the per-tick survival bonus in the race")

	long := testCmd.Long + "\n\nPolicies:"
	for _, p := range registry.List() {
		long += fmt.Sprintf("\n  %-10s - %s", p.Name, p.Description)
	}
	testCmd.Long = long
}

func runTest(_ *cobra.Command, args []string) error {
	sess, err := loadSession()
	if err != nil {
		return err
	}
	cfg := sess.cfg
	if flagSurvive {
		cfg.Fitness.SurviveInTest = true
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	entrants, err := resolveEntrants(cfg, store, args)
	if err != nil {
		return err
	}

	match := &evolve.Match{
		Config:   cfg,
		Assets:   sess.assets,
		Entrants: entrants,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("racing", "entrants", len(entrants), "seed", cfg.Session.Seed, "preset", sess.preset)

	var rankings []flappy.Ranking
	if flagTestWatch {
		match.TickRate = cfg.Session.TickRate
		w, h := termSize()
		style := flappy.DefaultStyle(cfg.Bird.Color, cfg.Pipe.Color)
		err = tui.Watch(ctx, "test", style, w, h, func(ctx context.Context, send func(tui.FrameMsg)) error {
			match.Watch = func(world *flappy.World, _ flappy.TickResult) {
				send(tui.FrameMsg{
					Snapshot: world.Snapshot(),
					Status:   fmt.Sprintf("%d of %d entrants flying", len(world.Agents()), len(entrants)),
				})
			}
			var runErr error
			rankings, runErr = match.Run(ctx, cfg.Session.Seed)
			return runErr
		})
	} else {
		rankings, err = match.Run(ctx, cfg.Session.Seed)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		logger.Warn("race interrupted, survivors ranked where they stood")
	}

	fmt.Println(tui.RankingsTable(rankings))

	if dir := flagTestTelemetry; dir != "" {
		out, err := telemetry.NewOutputManager(filepath.Join(dir, "test"), "test")
		if err != nil {
			return err
		}
		defer out.Close()
		if err := out.WriteConfig(cfg); err != nil {
			return err
		}
		if err := out.WriteRankings(rankings); err != nil {
			return err
		}
		logger.Info("rankings written", "dir", out.Dir())
	}
	return nil
}

// resolveEntrants turns names into agents: registered policies first, then
// saved models. No names means every saved model.
func resolveEntrants(cfg config.FlappyConfig, store *storage.Store, names []string) ([]flappy.AgentSpec, error) {
	if len(names) == 0 {
		if store == nil {
			return nil, errors.New("no database: name a policy to test")
		}
		models, err := store.ListModels()
		if err != nil {
			return nil, err
		}
		if len(models) == 0 {
			return nil, errors.New("no saved models: run 'flappy train' or name a policy")
		}
		for _, m := range models {
			names = append(names, m.Name)
		}
	}

	specs := make([]flappy.AgentSpec, 0, len(names))
	for i, name := range names {
		if registry.Exists(name) {
			d, err := registry.Create(name, cfg.Session.Seed+int64(i))
			if err != nil {
				return nil, err
			}
			specs = append(specs, flappy.AgentSpec{Label: name, Decider: d})
			continue
		}

		if store == nil {
			return nil, fmt.Errorf("unknown policy %q and no database to load models from", name)
		}
		m, err := store.LoadModel(name)
		if err != nil {
			return nil, err
		}
		net, err := m.Genome.Network()
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		specs = append(specs, flappy.AgentSpec{
			Label:   name,
			Decider: brain.NewDecider(net, cfg.Training.Threshold),
			Ref:     m,
		})
	}
	return specs, nil
}
