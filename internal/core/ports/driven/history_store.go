package driven

import (
	"context"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// HistoryStore records finished import runs.
type HistoryStore interface {
	// SaveRun stores a run and its per-target outcomes.
	// Saving a run with an existing ID replaces it.
	SaveRun(ctx context.Context, run domain.ImportRun) error

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, id string) (*domain.ImportRun, error)

	// ListRuns returns recent runs, most recent first, without targets.
	ListRuns(ctx context.Context, limit int) ([]domain.ImportRun, error)

	// PruneRuns removes all but the most recent keep runs.
	PruneRuns(ctx context.Context, keep int) error
}
