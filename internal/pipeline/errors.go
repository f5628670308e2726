package pipeline

import (
	"fmt"

	"github.com/outliers/druknation/internal/corpus"
)

// Initialization stages
const (
	StageFetch   = "fetch"
	StageExtract = "extract"
)

// InitError reports which source and stage broke an initialization run.
type InitError struct {
	Source corpus.Source
	Stage  string
	Cause  error
}

func (e *InitError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("initialization failed: %v", e.Cause)
	}
	return fmt.Sprintf("initialization failed: %s %s: %v", e.Source, e.Stage, e.Cause)
}

func (e *InitError) Unwrap() error {
	return e.Cause
}
