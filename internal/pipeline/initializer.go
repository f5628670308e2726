package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outliers/druknation/internal/corpus"
	"github.com/outliers/druknation/internal/db"
)

// DocumentLoader produces a fresh set of documents.
type DocumentLoader interface {
	Load(ctx context.Context) (*Documents, error)
}

// Recorder persists an audit record of each initialization run.
type Recorder interface {
	RecordIngestionRun(ctx context.Context, run *db.IngestionRun) error
}

// Result describes a successful initialization run.
type Result struct {
	RunID       uuid.UUID
	Trigger     string
	Documents   *Documents
	StartedAt   time.Time
	CompletedAt time.Time
}

// Initializer loads documents and installs them into the corpus. Runs are
// serialized; the corpus is only replaced when every source loaded.
type Initializer struct {
	mu       sync.Mutex
	loader   DocumentLoader
	store    *corpus.Store
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time

	lastMu sync.RWMutex
	last   *Result
}

// NewInitializer wires an Initializer. recorder may be nil.
func NewInitializer(loader DocumentLoader, store *corpus.Store, recorder Recorder, logger *zap.Logger) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{
		loader:   loader,
		store:    store,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Initialize runs one load. On failure the corpus keeps its previous content
// and the error is an *InitError.
func (i *Initializer) Initialize(ctx context.Context, trigger string) (*Result, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	runID := uuid.New()
	started := i.now()
	logger := i.logger.With(zap.String("run_id", runID.String()), zap.String("trigger", trigger))
	logger.Info("initializing legal corpus")

	docs, err := i.loader.Load(ctx)
	completed := i.now()

	if err != nil {
		var initErr *InitError
		if !errors.As(err, &initErr) {
			initErr = &InitError{Cause: err}
		}
		logger.Error("corpus initialization failed", zap.Error(initErr))
		i.record(ctx, logger, runID, trigger, started, completed, nil, initErr)
		return nil, initErr
	}

	i.store.Replace(docs.Primary, docs.Secondary)

	result := &Result{
		RunID:       runID,
		Trigger:     trigger,
		Documents:   docs,
		StartedAt:   started,
		CompletedAt: completed,
	}
	i.lastMu.Lock()
	i.last = result
	i.lastMu.Unlock()

	logger.Info("corpus initialized",
		zap.Int("total_context_length", utf8.RuneCountInString(i.store.CombinedText())),
		zap.Duration("duration", completed.Sub(started)),
	)
	i.record(ctx, logger, runID, trigger, started, completed, docs, nil)
	return result, nil
}

// Last returns the most recent successful run, or nil.
func (i *Initializer) Last() *Result {
	i.lastMu.RLock()
	defer i.lastMu.RUnlock()
	return i.last
}

func (i *Initializer) record(ctx context.Context, logger *zap.Logger, runID uuid.UUID, trigger string,
	started, completed time.Time, docs *Documents, runErr error) {
	if i.recorder == nil {
		return
	}

	run := &db.IngestionRun{
		ID:          runID,
		Trigger:     trigger,
		Status:      db.RunStatusSucceeded,
		StartedAt:   started,
		CompletedAt: completed,
	}
	if docs != nil {
		run.PenalCodeLength = docs.PrimaryMeta.Length
		run.PenalCodeHash = docs.PrimaryMeta.Hash
		run.ReferenceLength = docs.SecondaryMeta.Length
		run.ReferenceHash = docs.SecondaryMeta.Hash
	}
	if runErr != nil {
		msg := runErr.Error()
		run.Status = db.RunStatusFailed
		run.ErrorMessage = &msg
	}

	if err := i.recorder.RecordIngestionRun(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("failed to record ingestion run", zap.Error(err))
	}
}
