package stats

// schemaVersion1 is the current statistics schema.
const schemaVersion1 = 1

// schemaV1 holds per-species metric percentiles and the append-only run log.
var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS species_stats (
	species    TEXT NOT NULL,
	metric     TEXT NOT NULL,
	percentile INTEGER NOT NULL,
	value      REAL NOT NULL,
	UNIQUE(species, metric, percentile)
);

CREATE INDEX IF NOT EXISTS idx_species_stats_species ON species_stats(species);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	species      TEXT NOT NULL,
	assembler    TEXT NOT NULL,
	num_contigs  INTEGER NOT NULL,
	n50          INTEGER NOT NULL,
	l50          INTEGER NOT NULL,
	total_length INTEGER NOT NULL,
	gc_content   REAL NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_species ON runs(species);
`
