package stats

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// metric column values in species_stats.
const (
	metricN50     = "n50"
	metricContigs = "num_contigs"
	metricL50     = "l50"
	metricLength  = "total_length"
)

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

// Open opens or creates a SQLite statistics database at path and runs
// migrations. Creates the parent directory if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	if _, err := s.db.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion1); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion1 {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

// Contains reports whether any statistics rows exist for the species.
func (s *SqlStore) Contains(species string) (bool, error) {
	var n int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM species_stats WHERE species = ?", species,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count species stats: %w", err)
	}
	return n > 0, nil
}

// Lookup returns the percentile statistics for a species, or nil when the
// species has no rows.
func (s *SqlStore) Lookup(species string) (*SpeciesStats, error) {
	rows, err := s.db.Query(
		"SELECT metric, percentile, value FROM species_stats WHERE species = ?", species,
	)
	if err != nil {
		return nil, fmt.Errorf("query species stats: %w", err)
	}
	defer rows.Close()

	st := &SpeciesStats{
		Species: species,
		N50:     Percentiles{},
		Contigs: Percentiles{},
		L50:     Percentiles{},
		Length:  Percentiles{},
	}
	found := false
	for rows.Next() {
		var metric string
		var percentile int
		var value float64
		if err := rows.Scan(&metric, &percentile, &value); err != nil {
			return nil, fmt.Errorf("scan species stats: %w", err)
		}
		found = true
		switch metric {
		case metricN50:
			st.N50[percentile] = value
		case metricContigs:
			st.Contigs[percentile] = value
		case metricL50:
			st.L50[percentile] = value
		case metricLength:
			st.Length[percentile] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate species stats: %w", err)
	}
	if !found {
		return nil, nil
	}
	return st, nil
}

// PutSpeciesStats inserts or replaces all percentile rows for a species in
// one transaction.
func (s *SqlStore) PutSpeciesStats(st *SpeciesStats) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin stats tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM species_stats WHERE species = ?", st.Species); err != nil {
		return fmt.Errorf("clear species stats: %w", err)
	}
	metrics := map[string]Percentiles{
		metricN50:     st.N50,
		metricContigs: st.Contigs,
		metricL50:     st.L50,
		metricLength:  st.Length,
	}
	for metric, percentiles := range metrics {
		for rank, value := range percentiles {
			if _, err := tx.Exec(
				"INSERT INTO species_stats(species, metric, percentile, value) VALUES(?, ?, ?, ?)",
				st.Species, metric, rank, value,
			); err != nil {
				return fmt.Errorf("insert species stats: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stats tx: %w", err)
	}
	return nil
}

// RecordRun appends a completed run.
func (s *SqlStore) RecordRun(run *Run) error {
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO runs(id, species, assembler, num_contigs, n50, l50, total_length, gc_content, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Species, run.Assembler,
		run.Quality.NumContigs, run.Quality.N50, run.Quality.L50,
		run.Quality.TotalLength, run.Quality.GCContent,
		created.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// ListRuns returns recorded runs for a species, newest first. An empty
// species lists every run.
func (s *SqlStore) ListRuns(species string) ([]*Run, error) {
	query := `SELECT id, species, assembler, num_contigs, n50, l50, total_length, gc_content, created_at
	          FROM runs`
	var args []any
	if species != "" {
		query += " WHERE species = ?"
		args = append(args, species)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Species, &r.Assembler,
			&r.Quality.NumContigs, &r.Quality.N50, &r.Quality.L50,
			&r.Quality.TotalLength, &r.Quality.GCContent, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}
