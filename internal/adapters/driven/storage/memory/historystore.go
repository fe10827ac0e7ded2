package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu   sync.RWMutex
	runs map[string]domain.ImportRun
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		runs: make(map[string]domain.ImportRun),
	}
}

// SaveRun stores or replaces a run.
func (s *HistoryStore) SaveRun(_ context.Context, run domain.ImportRun) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	run.Targets = slices.Clone(run.Targets)
	s.runs[run.ID] = run
	return nil
}

// GetRun retrieves a run by ID.
func (s *HistoryStore) GetRun(_ context.Context, id string) (*domain.ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	run.Targets = slices.Clone(run.Targets)
	return &run, nil
}

// ListRuns returns up to limit runs, most recent first, without targets.
// A limit of zero or less returns every run.
func (s *HistoryStore) ListRuns(_ context.Context, limit int) ([]domain.ImportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.sorted()
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	for i := range result {
		result[i].Targets = nil
	}
	return result, nil
}

// PruneRuns removes all but the most recent keep runs.
func (s *HistoryStore) PruneRuns(_ context.Context, keep int) error {
	if keep < 0 {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	runs := s.sorted()
	if len(runs) <= keep {
		return nil
	}
	for _, run := range runs[keep:] {
		delete(s.runs, run.ID)
	}
	return nil
}

// sorted returns all runs newest first (caller must hold lock).
func (s *HistoryStore) sorted() []domain.ImportRun {
	result := make([]domain.ImportRun, 0, len(s.runs))
	for _, run := range s.runs {
		result = append(result, run)
	}
	slices.SortFunc(result, func(a, b domain.ImportRun) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return compareStrings(b.ID, a.ID)
	})
	return result
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
