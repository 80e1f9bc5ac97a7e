package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappy-neat/internal/platform/tui"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List saved models",
	Long: `List saved models, fittest first.

Examples:
  flappy models
  flappy models rm winner-120`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		models, err := store.ListModels()
		if err != nil {
			return err
		}
		if len(models) == 0 {
			fmt.Println("No saved models. Run 'flappy train' to evolve one.")
			return nil
		}
		fmt.Println(tui.ModelsTable(models))
		return nil
	},
}

var modelsRmCmd = &cobra.Command{
	Use:   "rm <name>...",
	Short: "Delete saved models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, name := range args {
			if err := store.DeleteModel(name); err != nil {
				return err
			}
			logger.Info("model deleted", "name", name)
		}
		return nil
	},
}

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List training runs, or show one run's generations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			runs, err := store.RecentRuns(20)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No training runs yet.")
				return nil
			}
			fmt.Println(tui.RunsTable(runs))
			return nil
		}

		run, err := findRun(store, args[0])
		if err != nil {
			return err
		}
		gens, err := store.Generations(run.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s  seed %d  preset %s  stopped: %s\n\n", run.ID, run.Seed, run.Preset, run.StopReason)
		fmt.Println(tui.GenerationsTable(gens))
		return nil
	},
}

// findRun accepts a full run ID or the 8 character prefix shown by 'runs'.
func findRun(store *storage.Store, id string) (*storage.Run, error) {
	if run, err := store.GetRun(id); err == nil {
		return run, nil
	}
	runs, err := store.RecentRuns(1000)
	if err != nil {
		return nil, err
	}
	for i := range runs {
		if strings.HasPrefix(runs[i].ID, id) {
			return &runs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: run %q", storage.ErrNotFound, id)
}

func init() {
	modelsCmd.AddCommand(modelsRmCmd)
}
