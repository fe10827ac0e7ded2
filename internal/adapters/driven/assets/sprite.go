package assets

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// SpriteModeSingle marks an image as one sprite, not a sheet.
const SpriteModeSingle = "single"

// MetaSuffix is appended to an image file name to name its sidecar.
const MetaSuffix = ".slice.toml"

// SpriteMeta is the sprite configuration recorded for an imported image.
// Border is in document units; BorderPixels is the same inset at the
// export scale, rounded, which is what an engine importer applies.
type SpriteMeta struct {
	SpriteMode   string     `toml:"sprite_mode"`
	NodeID       string     `toml:"node_id"`
	NodeName     string     `toml:"node_name"`
	FileKey      string     `toml:"file_key"`
	Scale        float64    `toml:"scale"`
	Width        int        `toml:"width"`
	Height       int        `toml:"height"`
	Border       BorderMeta `toml:"border"`
	BorderPixels PixelsMeta `toml:"border_pixels"`
}

// BorderMeta is a border in document units.
type BorderMeta struct {
	Left   float64 `toml:"left"`
	Top    float64 `toml:"top"`
	Right  float64 `toml:"right"`
	Bottom float64 `toml:"bottom"`
}

// PixelsMeta is a border in whole pixels.
type PixelsMeta struct {
	Left   int `toml:"left"`
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
}

// ImageSize is the pixel size of a rendered image.
type ImageSize struct {
	Width  int
	Height int
}

// CheckPNG verifies data is a PNG and returns its size. Anything else is an
// asset pipeline error: the image cannot become a sprite.
func CheckPNG(data []byte) (ImageSize, error) {
	if len(data) == 0 {
		return ImageSize{}, fmt.Errorf("%w: empty image", domain.ErrAssetPipeline)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageSize{}, fmt.Errorf("%w: not a PNG image: %v", domain.ErrAssetPipeline, err)
	}
	return ImageSize{Width: cfg.Width, Height: cfg.Height}, nil
}

// NewSpriteMeta builds the sprite configuration for req.
func NewSpriteMeta(req domain.AssetRequest, size ImageSize) SpriteMeta {
	scale := req.Scale
	if scale == 0 {
		scale = domain.DefaultScale
	}
	b := req.Target.Border
	px := b.Scaled(scale).Pixels()
	return SpriteMeta{
		SpriteMode: SpriteModeSingle,
		NodeID:     req.Target.ID,
		NodeName:   req.Target.Name,
		FileKey:    req.FileKey,
		Scale:      scale,
		Width:      size.Width,
		Height:     size.Height,
		Border:     BorderMeta{Left: b.Left, Top: b.Top, Right: b.Right, Bottom: b.Bottom},
		BorderPixels: PixelsMeta{
			Left: px.Left, Top: px.Top, Right: px.Right, Bottom: px.Bottom,
		},
	}
}

// FitsImage reports whether the pixel border leaves a non-negative centre.
func (m SpriteMeta) FitsImage() bool {
	p := m.BorderPixels
	return p.Left+p.Right <= m.Width && p.Top+p.Bottom <= m.Height
}

// Marshal encodes the metadata as TOML.
func (m SpriteMeta) Marshal() ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: encode sprite metadata: %v", domain.ErrAssetPipeline, err)
	}
	return data, nil
}

// ParseSpriteMeta decodes a sidecar file.
func ParseSpriteMeta(data []byte) (SpriteMeta, error) {
	var m SpriteMeta
	if err := toml.Unmarshal(data, &m); err != nil {
		return SpriteMeta{}, fmt.Errorf("%w: decode sprite metadata: %v", domain.ErrParse, err)
	}
	return m, nil
}
