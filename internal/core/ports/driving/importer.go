package driving

import (
	"context"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// Importer runs nine-slice imports.
type Importer interface {
	// Import fetches the document, selects targets, fetches their images and
	// persists each one with its border. The returned error is non-nil only
	// when the whole run aborted; per-target failures are in the report.
	Import(ctx context.Context, cfg domain.ImportConfig) (*domain.ImportReport, error)

	// Inspect fetches the document and returns the measured targets without
	// fetching images or writing anything.
	Inspect(ctx context.Context, cfg domain.ImportConfig) ([]domain.Target, error)

	// Status returns the progress of the current or last run.
	Status() domain.ImportStatus
}
