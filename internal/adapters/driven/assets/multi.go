package assets

import (
	"context"
	"fmt"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
)

// Ensure MultiSink implements the interface.
var _ driven.AssetSink = (*MultiSink)(nil)

// MultiSink persists each request to a primary sink and then to every
// mirror. The primary's location is returned. A mirror failure fails the
// target, so a run never reports an asset as imported when the mirror
// lacks it.
type MultiSink struct {
	primary driven.AssetSink
	mirrors []driven.AssetSink
}

// NewMultiSink creates a sink that writes to primary, then to mirrors in order.
func NewMultiSink(primary driven.AssetSink, mirrors ...driven.AssetSink) *MultiSink {
	return &MultiSink{primary: primary, mirrors: mirrors}
}

// Persist writes req to every sink.
func (m *MultiSink) Persist(ctx context.Context, req domain.AssetRequest) (string, error) {
	path, err := m.primary.Persist(ctx, req)
	if err != nil {
		return "", err
	}
	for _, mirror := range m.mirrors {
		if _, err := mirror.Persist(ctx, req); err != nil {
			return "", fmt.Errorf("mirror %s: %w", req.FileName(), err)
		}
	}
	return path, nil
}
