// Package stats is the historical assembly-statistics database: per-species
// quality percentiles consumed by expert-strategy derivation and heuristic
// evaluation, plus the append-only record of completed runs.
package stats

import (
	"sort"
	"sync"
	"time"

	"proksee/internal/assembly"
)

// Percentile ranks stored per metric. Lookup callers rely on 5/50/95 being
// present; 20 and 80 bound the "marginal" band.
var Ranks = []int{5, 20, 50, 80, 95}

// Percentiles maps a percentile rank (5, 20, 50, 80, 95) to a metric value.
type Percentiles map[int]float64

// Low, Median and High return the 5th, 50th and 95th percentile values.
func (p Percentiles) Low() float64    { return p[5] }
func (p Percentiles) Median() float64 { return p[50] }
func (p Percentiles) High() float64   { return p[95] }

// SpeciesStats are the historical assembly statistics for one species.
type SpeciesStats struct {
	Species string
	N50     Percentiles
	Contigs Percentiles
	L50     Percentiles
	Length  Percentiles
}

// Run is one completed pipeline run appended to the database at
// finalization.
type Run struct {
	ID        string // run UUID
	Species   string
	Assembler string
	Quality   assembly.QualityMetrics
	CreatedAt time.Time
}

// Store is the persistence facade for historical statistics. The pipeline
// and evaluators use only this interface; the implementation is SQLite or
// in-memory.
type Store interface {
	// Contains reports whether historical statistics exist for the species.
	Contains(species string) (bool, error)
	// Lookup returns the statistics for a species, or nil when absent.
	Lookup(species string) (*SpeciesStats, error)
	// PutSpeciesStats inserts or replaces the statistics for a species.
	PutSpeciesStats(st *SpeciesStats) error
	// RecordRun appends a completed run.
	RecordRun(run *Run) error
	// ListRuns returns recorded runs for a species, newest first.
	ListRuns(species string) ([]*Run, error)
	Close() error
}

// MemStore is the in-memory Store used by tests and by runs started without
// a statistics database path.
type MemStore struct {
	mu    sync.Mutex
	stats map[string]*SpeciesStats
	runs  []*Run
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{stats: map[string]*SpeciesStats{}}
}

func (m *MemStore) Contains(species string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.stats[species]
	return ok, nil
}

func (m *MemStore) Lookup(species string) (*SpeciesStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats[species], nil
}

func (m *MemStore) PutSpeciesStats(st *SpeciesStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[st.Species] = st
	return nil
}

func (m *MemStore) RecordRun(run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemStore) ListRuns(species string) ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Run
	for _, r := range m.runs {
		if species == "" || r.Species == species {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemStore) Close() error { return nil }
