package driving

import (
	"context"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// HistoryService exposes past import runs.
type HistoryService interface {
	// List returns recent runs, most recent first.
	List(ctx context.Context, limit int) ([]domain.ImportRun, error)

	// Get returns one run with its targets.
	Get(ctx context.Context, id string) (*domain.ImportRun, error)
}
