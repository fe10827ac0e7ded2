// Package filesystem writes imported sprites to a local directory.
//
// Each target produces two files: the rendered "{name}.png" and a
// "{name}.png.slice.toml" sidecar holding its sprite configuration.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/assets"
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
	"github.com/custodia-labs/nineslice-cli/internal/logger"
)

// Ensure Sink implements the interface.
var _ driven.AssetSink = (*Sink)(nil)

// Sink is a local directory asset sink.
type Sink struct {
	perm os.FileMode
}

// NewSink creates a filesystem sink writing world-readable files.
func NewSink() *Sink {
	return &Sink{perm: 0644}
}

// Persist writes the image and its sidecar under req.OutputDir and returns
// the image path. Both files are replaced atomically, so a reader never
// sees a partial image.
func (s *Sink) Persist(ctx context.Context, req domain.AssetRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	size, err := assets.CheckPNG(req.Image)
	if err != nil {
		return "", err
	}
	meta := assets.NewSpriteMeta(req, size)
	if !meta.FitsImage() {
		logger.Warn("Border of %s (%+v px) exceeds its %dx%d image",
			req.Target.Name, meta.BorderPixels, size.Width, size.Height)
	}
	sidecar, err := meta.Marshal()
	if err != nil {
		return "", err
	}

	// The sidecar goes first so an image is never left without its slice
	// configuration.
	path := filepath.Join(req.OutputDir, req.FileName())
	metaPath := path + assets.MetaSuffix
	if err := writeFileAtomic(metaPath, sidecar, s.perm); err != nil {
		return "", err
	}
	if err := writeFileAtomic(path, req.Image, s.perm); err != nil {
		if rmErr := os.Remove(metaPath); rmErr != nil {
			logger.Warn("Failed to remove %s: %v", metaPath, rmErr)
		}
		return "", err
	}

	logger.Debug("Wrote %s (%d bytes)", path, len(req.Image))
	return path, nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrIO, path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrIO, path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: chmod %s: %v", domain.ErrIO, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrIO, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename %s: %v", domain.ErrIO, path, err)
	}
	return nil
}
