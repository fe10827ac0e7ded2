package driven

import (
	"context"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// AssetSink persists a rendered image and configures it as a sliceable
// sprite whose inset is the target's border.
type AssetSink interface {
	// Persist writes "{name}.png" for the request and records its sprite
	// configuration. It returns the location written.
	// Fails with an error wrapping domain.ErrIO or domain.ErrAssetPipeline.
	Persist(ctx context.Context, req domain.AssetRequest) (string, error)
}
