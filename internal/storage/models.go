package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/flappy-neat/internal/evolve"
)

// Model is a saved genome under a unique name.
type Model struct {
	Name       string
	RunID      string
	Generation int
	Fitness    float64
	Score      int
	Hidden     int
	Genome     *evolve.Genome
	CreatedAt  time.Time
}

// DefaultModelName names a model after its fitness.
func DefaultModelName(fitness float64) string {
	return fmt.Sprintf("winner-%.0f", fitness)
}

// SaveModel stores m, replacing any model with the same name. Generation,
// fitness, score and hidden size are taken from the genome.
func (s *Store) SaveModel(m Model) error {
	if m.Name == "" {
		return errors.New("storage: model name is required")
	}
	if m.Genome == nil {
		return fmt.Errorf("storage: model %q has no genome", m.Name)
	}
	payload, err := EncodeGenome(m.Genome)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO models (name, run_id, generation, fitness, score, hidden, codec_version, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			run_id = excluded.run_id,
			generation = excluded.generation,
			fitness = excluded.fitness,
			score = excluded.score,
			hidden = excluded.hidden,
			codec_version = excluded.codec_version,
			payload = excluded.payload,
			created_at = CURRENT_TIMESTAMP`,
		m.Name, m.RunID, m.Genome.Generation, m.Genome.Fitness, m.Genome.Score, m.Genome.Hidden,
		CodecVersion, payload,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save model: %w", err)
	}
	return nil
}

// LoadModel returns the named model with its decoded genome.
func (s *Store) LoadModel(name string) (*Model, error) {
	row := s.db.QueryRow(
		`SELECT name, run_id, generation, fitness, score, hidden, payload, created_at
		 FROM models WHERE name = ?`,
		name,
	)
	m, err := scanModel(row.Scan, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: model %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListModels returns every model, fittest first. Genomes are not decoded.
func (s *Store) ListModels() ([]Model, error) {
	rows, err := s.db.Query(
		`SELECT name, run_id, generation, fitness, score, hidden, payload, created_at
		 FROM models
		 ORDER BY fitness DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query models: %w", err)
	}
	defer rows.Close()

	var out []Model
	for rows.Next() {
		m, err := scanModel(rows.Scan, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteModel removes the named model.
func (s *Store) DeleteModel(name string) error {
	res, err := s.db.Exec(`DELETE FROM models WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("storage: cannot delete model: %w", err)
	}
	return expectRow(res, "model", name)
}

func scanModel(scan func(dest ...any) error, decode bool) (*Model, error) {
	var m Model
	var payload []byte
	var createdAt any
	err := scan(&m.Name, &m.RunID, &m.Generation, &m.Fitness, &m.Score, &m.Hidden, &payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot scan model: %w", err)
	}
	m.CreatedAt = parseTime(createdAt)

	if decode {
		g, err := DecodeGenome(payload)
		if err != nil {
			return nil, fmt.Errorf("storage: model %q: %w", m.Name, err)
		}
		m.Genome = g
	}
	return &m, nil
}
