package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vovakirdan/flappy-neat/internal/evolve"
)

// Run is one training run.
type Run struct {
	ID          string
	Seed        int64
	Preset      string
	Config      string // YAML the run was started with
	StartedAt   time.Time
	FinishedAt  time.Time // Zero while running or if interrupted
	Generations int
	BestFitness float64
	StopReason  string
}

// GenerationRow is the stored summary of one generation.
type GenerationRow struct {
	RunID         string
	Generation    int
	Population    int
	Score         int
	Ticks         int
	BestGenome    int
	BestFitness   float64
	MeanFitness   float64
	StdFitness    float64
	MedianFitness float64
}

// CreateRun records the start of a training run.
func (s *Store) CreateRun(r Run) error {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, seed, preset, config, started_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Seed, r.Preset, r.Config, r.StartedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot create run: %w", err)
	}
	return nil
}

// FinishRun stores the outcome of a run.
func (s *Store) FinishRun(id string, generations int, bestFitness float64, reason string) error {
	res, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, generations = ?, best_fitness = ?, stop_reason = ? WHERE id = ?`,
		time.Now().Unix(), generations, bestFitness, reason, id,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot finish run: %w", err)
	}
	return expectRow(res, "run", id)
}

// GetRun returns a run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	rows, err := s.queryRuns(`WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: run %q", ErrNotFound, id)
	}
	return &rows[0], nil
}

// RecentRuns returns the newest runs first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(`ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
}

func (s *Store) queryRuns(tail string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, seed, preset, config, started_at, finished_at, generations, best_fitness, stop_reason
		 FROM runs `+tail,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished int64
		if err := rows.Scan(&r.ID, &r.Seed, &r.Preset, &r.Config, &started, &finished,
			&r.Generations, &r.BestFitness, &r.StopReason); err != nil {
			return nil, fmt.Errorf("storage: cannot scan run: %w", err)
		}
		r.StartedAt = time.Unix(started, 0)
		if finished > 0 {
			r.FinishedAt = time.Unix(finished, 0)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// SaveGeneration stores one generation of a run, replacing an earlier row
// for the same generation.
func (s *Store) SaveGeneration(runID string, g evolve.GenerationStats) error {
	_, err := s.db.Exec(
		`INSERT INTO generations
		 (run_id, generation, population, score, ticks, best_genome, best_fitness, mean_fitness, std_fitness, median_fitness)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, generation) DO UPDATE SET
			population = excluded.population,
			score = excluded.score,
			ticks = excluded.ticks,
			best_genome = excluded.best_genome,
			best_fitness = excluded.best_fitness,
			mean_fitness = excluded.mean_fitness,
			std_fitness = excluded.std_fitness,
			median_fitness = excluded.median_fitness`,
		runID, g.Generation, g.Population, g.Score, g.Ticks, g.BestID,
		g.BestFitness, g.MeanFitness, g.StdFitness, g.MedianFitness,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save generation: %w", err)
	}
	return nil
}

// Generations returns a run's generations in order.
func (s *Store) Generations(runID string) ([]GenerationRow, error) {
	rows, err := s.db.Query(
		`SELECT run_id, generation, population, score, ticks, best_genome,
		        best_fitness, mean_fitness, std_fitness, median_fitness
		 FROM generations
		 WHERE run_id = ?
		 ORDER BY generation`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query generations: %w", err)
	}
	defer rows.Close()

	var out []GenerationRow
	for rows.Next() {
		var g GenerationRow
		if err := rows.Scan(&g.RunID, &g.Generation, &g.Population, &g.Score, &g.Ticks, &g.BestGenome,
			&g.BestFitness, &g.MeanFitness, &g.StdFitness, &g.MedianFitness); err != nil {
			return nil, fmt.Errorf("storage: cannot scan generation: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteRun removes a run and its generations. Models keep their run ID.
func (s *Store) DeleteRun(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM generations WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("storage: cannot delete generations: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	if err := expectRow(res, "run", id); err != nil {
		return err
	}
	return tx.Commit()
}

// Recorder returns a reporter that stores every generation under runID.
func (s *Store) Recorder(runID string) evolve.Reporter {
	return &runRecorder{store: s, runID: runID}
}

type runRecorder struct {
	store *Store
	runID string
}

func (r *runRecorder) ReportGeneration(g evolve.GenerationStats, _ *evolve.Genome) error {
	return r.store.SaveGeneration(r.runID, g)
}

func expectRow(res sql.Result, kind, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot count affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, key)
	}
	return nil
}
