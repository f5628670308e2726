package db

import (
	"context"
	"fmt"
)

// RecordIngestionRun inserts an audit record. Re-recording the same ID
// overwrites the earlier row.
func (db *DB) RecordIngestionRun(ctx context.Context, run *IngestionRun) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO ingestion_runs (id, trigger, status, penal_code_length, penal_code_hash,
		                             reference_length, reference_hash, error_message, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET status = $3, penal_code_length = $4, penal_code_hash = $5,
		     reference_length = $6, reference_hash = $7, error_message = $8, completed_at = $10`,
		run.ID, run.Trigger, run.Status, run.PenalCodeLength, run.PenalCodeHash,
		run.ReferenceLength, run.ReferenceHash, run.ErrorMessage, run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record ingestion run: %w", err)
	}
	return nil
}

// ListIngestionRuns returns the most recent runs, newest first.
func (db *DB) ListIngestionRuns(ctx context.Context, limit int) ([]IngestionRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, trigger, status, penal_code_length, penal_code_hash,
		        reference_length, reference_hash, error_message, started_at, completed_at
		 FROM ingestion_runs
		 ORDER BY started_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion runs: %w", err)
	}
	defer rows.Close()

	var runs []IngestionRun
	for rows.Next() {
		var r IngestionRun
		if err := rows.Scan(&r.ID, &r.Trigger, &r.Status, &r.PenalCodeLength, &r.PenalCodeHash,
			&r.ReferenceLength, &r.ReferenceHash, &r.ErrorMessage, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingestion runs: %w", err)
	}

	return runs, nil
}
