package store

import (
	"fmt"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "fusion_batches: one row per fusion run",
		SQL: `
CREATE TABLE fusion_batches (
    id               INTEGER PRIMARY KEY,
    batch_id         TEXT NOT NULL UNIQUE,
    original_count   INTEGER NOT NULL,
    integrated_count INTEGER NOT NULL,
    coherence        REAL NOT NULL,
    node_count       INTEGER NOT NULL,
    edge_count       INTEGER NOT NULL,
    conflict_count   INTEGER NOT NULL,
    avg_confidence   REAL NOT NULL,
    errors           TEXT,
    created_at       INTEGER NOT NULL
);

CREATE INDEX idx_batches_created ON fusion_batches(created_at DESC);
`,
	},
	{
		Version:     2,
		Description: "batch_evidence: raw input evidence per batch",
		SQL: `
CREATE TABLE batch_evidence (
    id            INTEGER PRIMARY KEY,
    batch_id      TEXT NOT NULL,
    evidence_id   TEXT NOT NULL,
    source        TEXT NOT NULL,
    evidence_type TEXT NOT NULL,
    confidence    REAL NOT NULL,
    data          TEXT,
    created_at    INTEGER NOT NULL,

    FOREIGN KEY (batch_id) REFERENCES fusion_batches(batch_id) ON DELETE CASCADE
);

CREATE INDEX idx_evidence_batch ON batch_evidence(batch_id);
`,
	},
	{
		Version:     3,
		Description: "enhanced_confidences: per-evidence fusion output",
		SQL: `
CREATE TABLE enhanced_confidences (
    id               INTEGER PRIMARY KEY,
    batch_id         TEXT NOT NULL,
    evidence_id      TEXT NOT NULL,
    original         REAL NOT NULL,
    fuzzy            REAL NOT NULL,
    posterior        REAL NOT NULL,
    influence        REAL NOT NULL,
    final            REAL NOT NULL,
    uncertainty_low  REAL NOT NULL,
    uncertainty_high REAL NOT NULL,

    FOREIGN KEY (batch_id) REFERENCES fusion_batches(batch_id) ON DELETE CASCADE
);

CREATE INDEX idx_confidences_batch ON enhanced_confidences(batch_id);
`,
	},
	{
		Version:     4,
		Description: "predictions: missing-evidence predictions per batch",
		SQL: `
CREATE TABLE predictions (
    id              INTEGER PRIMARY KEY,
    batch_id        TEXT NOT NULL,
    node_id         TEXT NOT NULL,
    predicted_value REAL NOT NULL,
    confidence      REAL NOT NULL,
    supporting      TEXT,
    reasoning       TEXT,

    FOREIGN KEY (batch_id) REFERENCES fusion_batches(batch_id) ON DELETE CASCADE
);

CREATE INDEX idx_predictions_batch ON predictions(batch_id);
`,
	},
}

func (db *DB) migrate() error {
	// Create schema_versions table if it doesn't exist
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_versions (
			version     INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at  INTEGER NOT NULL DEFAULT (strftime('%s', 'now') * 1000)
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_versions WHERE version = ?", m.Version).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}

		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_versions (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion() (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	return version, err
}
