// Package corpus holds the in-memory legal text used to ground answers.
package corpus

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Separator joins the primary and secondary texts in the combined context.
const Separator = "\n\n"

// Source names one of the two texts held by the store.
type Source string

const (
	// SourcePrimary is the penal code extracted from the local document.
	SourcePrimary Source = "penal_code"
	// SourceSecondary is the reference article fetched from the web.
	SourceSecondary Source = "wikipedia"
)

// Snapshot is an immutable copy of the corpus at one point in time.
type Snapshot struct {
	Primary     string
	Secondary   string
	Combined    string
	LastUpdated *time.Time
}

// Loaded reports whether the snapshot holds any non-whitespace context.
func (s Snapshot) Loaded() bool {
	return strings.TrimSpace(s.Combined) != ""
}

// Store owns the corpus. Writers replace whole texts; the combined text is
// recomputed on every write, never on read.
type Store struct {
	mu          sync.RWMutex
	primary     string
	secondary   string
	combined    string
	lastUpdated *time.Time
	now         func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// SetSource replaces the text of one source.
func (s *Store) SetSource(which Source, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch which {
	case SourcePrimary:
		s.primary = text
	case SourceSecondary:
		s.secondary = text
	default:
		return fmt.Errorf("unknown corpus source %q", which)
	}
	s.recomputeLocked()
	return nil
}

// Replace swaps both texts in a single write, so readers never observe a
// corpus mixing an old and a new source.
func (s *Store) Replace(primary, secondary string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.primary = primary
	s.secondary = secondary
	s.recomputeLocked()
}

func (s *Store) recomputeLocked() {
	s.combined = s.primary + Separator + s.secondary
	now := s.now()
	s.lastUpdated = &now
}

// CombinedText returns the current combined context.
func (s *Store) CombinedText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.combined
}

// Snapshot returns a copy of the current corpus.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Primary:   s.primary,
		Secondary: s.secondary,
		Combined:  s.combined,
	}
	if s.lastUpdated != nil {
		t := *s.lastUpdated
		snap.LastUpdated = &t
	}
	return snap
}

// Loaded reports whether the store holds any non-whitespace context.
func (s *Store) Loaded() bool {
	return s.Snapshot().Loaded()
}
