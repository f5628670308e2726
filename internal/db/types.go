package db

import (
	"time"

	"github.com/google/uuid"
)

// Ingestion run status constants
const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// Ingestion run trigger constants
const (
	TriggerStartup = "startup"
	TriggerReload  = "reload"
)

// DefaultListLimit caps ListIngestionRuns when no limit is given.
const DefaultListLimit = 20

// IngestionRun is one audit record of a corpus initialization.
type IngestionRun struct {
	ID              uuid.UUID `json:"id"`
	Trigger         string    `json:"trigger"`
	Status          string    `json:"status"`
	PenalCodeLength int       `json:"penal_code_length"`
	PenalCodeHash   string    `json:"penal_code_hash,omitempty"`
	ReferenceLength int       `json:"reference_length"`
	ReferenceHash   string    `json:"reference_hash,omitempty"`
	ErrorMessage    *string   `json:"error_message,omitempty"`
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
}

// Duration returns how long the run took.
func (r *IngestionRun) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}
