// Package telemetry writes training and test results as CSV files for
// plotting fitness curves outside the program.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

// File names inside the output directory.
const (
	GenerationsFile = "generations.csv"
	RankingsFile    = "rankings.csv"
	ConfigFile      = "config.yaml"
)

// GenerationRecord is one row of generations.csv.
type GenerationRecord struct {
	RunID         string  `csv:"run_id"`
	Generation    int     `csv:"generation"`
	Population    int     `csv:"population"`
	Score         int     `csv:"score"`
	Ticks         int     `csv:"ticks"`
	EndReason     string  `csv:"end_reason"`
	BestGenome    int     `csv:"best_genome"`
	BestFitness   float64 `csv:"best_fitness"`
	MeanFitness   float64 `csv:"mean_fitness"`
	StdFitness    float64 `csv:"std_fitness"`
	MedianFitness float64 `csv:"median_fitness"`
	WorstFitness  float64 `csv:"worst_fitness"`
	BaseCrashes   int     `csv:"base_crashes"`
	PipeCrashes   int     `csv:"pipe_crashes"`
	SkyCrashes    int     `csv:"sky_crashes"`
	ElapsedMS     int64   `csv:"elapsed_ms"`
}

// NewGenerationRecord flattens generation stats into a CSV row.
func NewGenerationRecord(runID string, s evolve.GenerationStats) GenerationRecord {
	reason := "running"
	switch s.Reason {
	case flappy.EndExtinct:
		reason = "extinct"
	case flappy.EndScoreCap:
		reason = "score_cap"
	}
	return GenerationRecord{
		RunID:         runID,
		Generation:    s.Generation,
		Population:    s.Population,
		Score:         s.Score,
		Ticks:         s.Ticks,
		EndReason:     reason,
		BestGenome:    s.BestID,
		BestFitness:   s.BestFitness,
		MeanFitness:   s.MeanFitness,
		StdFitness:    s.StdFitness,
		MedianFitness: s.MedianFitness,
		WorstFitness:  s.WorstFitness,
		BaseCrashes:   s.Crashes[flappy.CrashBase],
		PipeCrashes:   s.Crashes[flappy.CrashPipe],
		SkyCrashes:    s.Crashes[flappy.CrashSky],
		ElapsedMS:     s.Elapsed.Milliseconds(),
	}
}

// RankingRecord is one row of rankings.csv.
type RankingRecord struct {
	Rank    int     `csv:"rank"`
	Label   string  `csv:"label"`
	Score   int     `csv:"score"`
	Fitness float64 `csv:"fitness"`
	Ticks   int     `csv:"ticks"`
	Crash   string  `csv:"crash"`
}

// OutputManager handles experiment output with CSV logging.
type OutputManager struct {
	dir             string
	runID           string
	generationsFile *os.File
	rankingsFile    *os.File

	generationsHeaderWritten bool
	rankingsHeaderWritten    bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled); every method is safe on a
// nil manager.
func NewOutputManager(dir, runID string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, runID: runID}

	f, err := os.Create(filepath.Join(dir, GenerationsFile))
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating %s: %w", GenerationsFile, err)
	}
	om.generationsFile = f

	f, err = os.Create(filepath.Join(dir, RankingsFile))
	if err != nil {
		om.generationsFile.Close()
		return nil, fmt.Errorf("telemetry: creating %s: %w", RankingsFile, err)
	}
	om.rankingsFile = f

	return om, nil
}

// WriteConfig saves the session configuration next to the CSV files.
func (om *OutputManager) WriteConfig(cfg config.FlappyConfig) error {
	if om == nil {
		return nil
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, ConfigFile), data, 0o644); err != nil {
		return fmt.Errorf("telemetry: writing %s: %w", ConfigFile, err)
	}
	return nil
}

// ReportGeneration implements evolve.Reporter by appending to generations.csv.
func (om *OutputManager) ReportGeneration(s evolve.GenerationStats, _ *evolve.Genome) error {
	if om == nil {
		return nil
	}

	records := []GenerationRecord{NewGenerationRecord(om.runID, s)}

	if !om.generationsHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.generationsFile); err != nil {
			return fmt.Errorf("telemetry: writing generation: %w", err)
		}
		om.generationsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.generationsFile); err != nil {
			return fmt.Errorf("telemetry: writing generation: %w", err)
		}
	}

	return nil
}

// WriteRankings appends a full ranking table to rankings.csv.
func (om *OutputManager) WriteRankings(rankings []flappy.Ranking) error {
	if om == nil || len(rankings) == 0 {
		return nil
	}

	records := make([]RankingRecord, len(rankings))
	for i, r := range rankings {
		records[i] = RankingRecord{
			Rank:    i + 1,
			Label:   r.Label,
			Score:   r.Score,
			Fitness: r.Fitness,
			Ticks:   r.Ticks,
			Crash:   r.Crash.String(),
		}
	}

	if !om.rankingsHeaderWritten {
		if err := gocsv.Marshal(records, om.rankingsFile); err != nil {
			return fmt.Errorf("telemetry: writing rankings: %w", err)
		}
		om.rankingsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.rankingsFile); err != nil {
			return fmt.Errorf("telemetry: writing rankings: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.generationsFile, om.rankingsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ evolve.Reporter = (*OutputManager)(nil)
