package filesystem

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/assets"
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func request(t *testing.T, dir, name string) domain.AssetRequest {
	return domain.AssetRequest{
		OutputDir: dir,
		FileKey:   "abc123",
		Target: domain.Target{ID: "1:2", Name: name}.
			WithBorder(domain.Border{Left: 10, Top: 10, Right: 4, Bottom: 4}),
		Image: encodePNG(t, 64, 32),
		Scale: 1,
	}
}

func TestSink_Persist(t *testing.T) {
	dir := t.TempDir()
	req := request(t, dir, "btn_panel")

	path, err := NewSink().Persist(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "btn_panel.png"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, req.Image, written)

	sidecar, err := os.ReadFile(path + assets.MetaSuffix)
	require.NoError(t, err)
	meta, err := assets.ParseSpriteMeta(sidecar)
	require.NoError(t, err)
	assert.Equal(t, assets.SpriteModeSingle, meta.SpriteMode)
	assert.Equal(t, "1:2", meta.NodeID)
	assert.Equal(t, "abc123", meta.FileKey)
	assert.Equal(t, 64, meta.Width)
	assert.Equal(t, 32, meta.Height)
	assert.Equal(t, assets.PixelsMeta{Left: 10, Top: 10, Right: 4, Bottom: 4}, meta.BorderPixels)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files left behind")
}

func TestSink_Persist_Overwrites(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink()
	first := request(t, dir, "btn_panel")
	second := request(t, dir, "btn_panel")
	second.Image = encodePNG(t, 8, 8)

	_, err := sink.Persist(context.Background(), first)
	require.NoError(t, err)
	path, err := sink.Persist(context.Background(), second)
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, second.Image, written)
}

func TestSink_Persist_FlattensNames(t *testing.T) {
	dir := t.TempDir()

	path, err := NewSink().Persist(context.Background(), request(t, dir, "../ui/btn"))

	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".._ui_btn.png", filepath.Base(path))
}

func TestSink_Persist_NotPNG(t *testing.T) {
	dir := t.TempDir()
	req := request(t, dir, "btn_panel")
	req.Image = []byte("not an image")

	_, err := NewSink().Persist(context.Background(), req)

	assert.True(t, errors.Is(err, domain.ErrAssetPipeline))
	assert.NoFileExists(t, filepath.Join(dir, "btn_panel.png"))
}

func TestSink_Persist_MissingDir(t *testing.T) {
	req := request(t, filepath.Join(t.TempDir(), "gone"), "btn_panel")

	_, err := NewSink().Persist(context.Background(), req)

	assert.True(t, errors.Is(err, domain.ErrIO))
}

func TestSink_Persist_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSink().Persist(ctx, request(t, t.TempDir(), "btn_panel"))

	assert.True(t, errors.Is(err, domain.ErrIO))
}

func TestSink_Persist_SidecarFailureLeavesNoImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "btn_panel.png"+assets.MetaSuffix), 0755))

	_, err := NewSink().Persist(context.Background(), request(t, dir, "btn_panel"))

	assert.True(t, errors.Is(err, domain.ErrIO))
	assert.NoFileExists(t, filepath.Join(dir, "btn_panel.png"))
}

func TestSink_Persist_ImageFailureRemovesSidecar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "btn_panel.png"), 0755))

	_, err := NewSink().Persist(context.Background(), request(t, dir, "btn_panel"))

	assert.True(t, errors.Is(err, domain.ErrIO))
	assert.NoFileExists(t, filepath.Join(dir, "btn_panel.png"+assets.MetaSuffix))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the pre-existing directory remains")
}
