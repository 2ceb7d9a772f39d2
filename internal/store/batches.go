package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/molfuse/molfuse/internal/fusion"
	"github.com/molfuse/molfuse/internal/network"
)

// Batch is the stored summary row for one fusion run.
type Batch struct {
	ID              int64    `json:"-"`
	BatchID         string   `json:"batch_id"`
	OriginalCount   int      `json:"original_count"`
	IntegratedCount int      `json:"integrated_count"`
	Coherence       float64  `json:"coherence"`
	NodeCount       int      `json:"node_count"`
	EdgeCount       int      `json:"edge_count"`
	ConflictCount   int      `json:"conflict_count"`
	AvgConfidence   float64  `json:"avg_confidence"`
	Errors          []string `json:"errors,omitempty"`
	CreatedAt       int64    `json:"created_at"`
}

// StoreStats aggregates across all stored batches.
type StoreStats struct {
	BatchCount     int     `json:"batch_count"`
	EvidenceCount  int     `json:"evidence_count"`
	AvgCoherence   float64 `json:"avg_coherence"`
	TotalConflicts int     `json:"total_conflicts"`
}

// SaveBatch persists a fusion result together with its input evidence
// under the given batch id. The whole write is one transaction.
func (db *DB) SaveBatch(batchID string, evidence []fusion.RawEvidence, result *fusion.Result) error {
	errorsJSON, err := json.Marshal(result.IntegrationErrors)
	if err != nil {
		return fmt.Errorf("marshal errors: %w", err)
	}
	now := time.Now().UnixMilli()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO fusion_batches
		    (batch_id, original_count, integrated_count, coherence,
		     node_count, edge_count, conflict_count, avg_confidence, errors, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batchID, result.OriginalEvidenceCount, result.IntegratedEvidenceCount,
		result.NetworkCoherenceScore, result.Stats.NodeCount, result.Stats.EdgeCount,
		result.Stats.ConflictCount, result.Stats.AvgConfidence, string(errorsJSON), now,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	for _, ev := range evidence {
		_, err = tx.Exec(`
			INSERT INTO batch_evidence
			    (batch_id, evidence_id, source, evidence_type, confidence, data, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			batchID, ev.ID, ev.Source, ev.EvidenceType, ev.Confidence, string(ev.Data), now,
		)
		if err != nil {
			return fmt.Errorf("insert evidence %s: %w", ev.ID, err)
		}
	}

	for id, ec := range result.EnhancedConfidences {
		_, err = tx.Exec(`
			INSERT INTO enhanced_confidences
			    (batch_id, evidence_id, original, fuzzy, posterior,
			     influence, final, uncertainty_low, uncertainty_high)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			batchID, id, ec.Original, ec.Fuzzy, ec.BayesianPosterior,
			ec.NetworkInfluence, ec.Final, ec.UncertaintyLow, ec.UncertaintyHi,
		)
		if err != nil {
			return fmt.Errorf("insert confidence %s: %w", id, err)
		}
	}

	for _, p := range result.Predictions {
		supporting, err := json.Marshal(p.SupportingEvidence)
		if err != nil {
			return fmt.Errorf("marshal supporting: %w", err)
		}
		_, err = tx.Exec(`
			INSERT INTO predictions
			    (batch_id, node_id, predicted_value, confidence, supporting, reasoning)
			VALUES (?, ?, ?, ?, ?, ?)`,
			batchID, p.NodeID, p.PredictedValue, p.Confidence, string(supporting), p.Reasoning,
		)
		if err != nil {
			return fmt.Errorf("insert prediction %s: %w", p.NodeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetBatch returns the summary row for a batch, or nil if not found.
func (db *DB) GetBatch(batchID string) (*Batch, error) {
	var b Batch
	var errorsJSON sql.NullString
	err := db.QueryRow(`
		SELECT id, batch_id, original_count, integrated_count, coherence,
		       node_count, edge_count, conflict_count, avg_confidence, errors, created_at
		FROM fusion_batches WHERE batch_id = ?`, batchID,
	).Scan(&b.ID, &b.BatchID, &b.OriginalCount, &b.IntegratedCount, &b.Coherence,
		&b.NodeCount, &b.EdgeCount, &b.ConflictCount, &b.AvgConfidence, &errorsJSON, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get batch %s: %w", batchID, err)
	}

	if errorsJSON.Valid && errorsJSON.String != "" {
		if err := json.Unmarshal([]byte(errorsJSON.String), &b.Errors); err != nil {
			return nil, fmt.Errorf("unmarshal batch errors: %w", err)
		}
	}
	return &b, nil
}

// GetBatchEvidence returns the raw evidence saved with a batch.
func (db *DB) GetBatchEvidence(batchID string) ([]fusion.RawEvidence, error) {
	rows, err := db.Query(`
		SELECT evidence_id, source, evidence_type, confidence, data
		FROM batch_evidence WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query evidence: %w", err)
	}
	defer rows.Close()

	var out []fusion.RawEvidence
	for rows.Next() {
		var ev fusion.RawEvidence
		var data sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Source, &ev.EvidenceType, &ev.Confidence, &data); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		if data.Valid && data.String != "" {
			ev.Data = json.RawMessage(data.String)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// GetBatchConfidences returns the per-evidence fusion output for a batch,
// keyed by evidence id.
func (db *DB) GetBatchConfidences(batchID string) (map[string]fusion.EnhancedConfidence, error) {
	rows, err := db.Query(`
		SELECT evidence_id, original, fuzzy, posterior, influence, final,
		       uncertainty_low, uncertainty_high
		FROM enhanced_confidences WHERE batch_id = ?`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query confidences: %w", err)
	}
	defer rows.Close()

	out := map[string]fusion.EnhancedConfidence{}
	for rows.Next() {
		var id string
		var ec fusion.EnhancedConfidence
		if err := rows.Scan(&id, &ec.Original, &ec.Fuzzy, &ec.BayesianPosterior,
			&ec.NetworkInfluence, &ec.Final, &ec.UncertaintyLow, &ec.UncertaintyHi); err != nil {
			return nil, fmt.Errorf("scan confidence: %w", err)
		}
		out[id] = ec
	}
	return out, rows.Err()
}

// GetBatchPredictions returns the predictions saved with a batch.
func (db *DB) GetBatchPredictions(batchID string) ([]network.Prediction, error) {
	rows, err := db.Query(`
		SELECT node_id, predicted_value, confidence, supporting, reasoning
		FROM predictions WHERE batch_id = ? ORDER BY confidence DESC, node_id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []network.Prediction
	for rows.Next() {
		var p network.Prediction
		var supporting sql.NullString
		if err := rows.Scan(&p.NodeID, &p.PredictedValue, &p.Confidence, &supporting, &p.Reasoning); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		if supporting.Valid && supporting.String != "" {
			if err := json.Unmarshal([]byte(supporting.String), &p.SupportingEvidence); err != nil {
				return nil, fmt.Errorf("unmarshal supporting: %w", err)
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecentBatches returns batch summaries, newest first.
func (db *DB) RecentBatches(limit int) ([]Batch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT id, batch_id, original_count, integrated_count, coherence,
		       node_count, edge_count, conflict_count, avg_confidence, errors, created_at
		FROM fusion_batches ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var b Batch
		var errorsJSON sql.NullString
		if err := rows.Scan(&b.ID, &b.BatchID, &b.OriginalCount, &b.IntegratedCount, &b.Coherence,
			&b.NodeCount, &b.EdgeCount, &b.ConflictCount, &b.AvgConfidence, &errorsJSON, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		if errorsJSON.Valid && errorsJSON.String != "" {
			if err := json.Unmarshal([]byte(errorsJSON.String), &b.Errors); err != nil {
				return nil, fmt.Errorf("unmarshal batch errors: %w", err)
			}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Stats aggregates counts and mean coherence across all stored batches.
func (db *DB) Stats() (*StoreStats, error) {
	var s StoreStats
	err := db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(AVG(coherence), 0),
		       COALESCE(SUM(conflict_count), 0)
		FROM fusion_batches`,
	).Scan(&s.BatchCount, &s.AvgCoherence, &s.TotalConflicts)
	if err != nil {
		return nil, fmt.Errorf("batch stats: %w", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM batch_evidence").Scan(&s.EvidenceCount)
	if err != nil {
		return nil, fmt.Errorf("evidence count: %w", err)
	}
	return &s, nil
}
