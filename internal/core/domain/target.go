package domain

import "math"

// Border is a nine-slice inset: the distance from each edge of an image to
// the stretchable interior. Values are in the same units as Node.Bounds.
type Border struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// IsZero reports whether the border has no inset on any side.
func (b Border) IsZero() bool {
	return b.Left == 0 && b.Top == 0 && b.Right == 0 && b.Bottom == 0
}

// Scaled returns the border multiplied by an export scale factor.
func (b Border) Scaled(scale float64) Border {
	return Border{
		Left:   b.Left * scale,
		Top:    b.Top * scale,
		Right:  b.Right * scale,
		Bottom: b.Bottom * scale,
	}
}

// PixelBorder is a border rounded to whole pixels.
type PixelBorder struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Pixels rounds each side to the nearest whole pixel.
func (b Border) Pixels() PixelBorder {
	return PixelBorder{
		Left:   int(math.Round(b.Left)),
		Top:    int(math.Round(b.Top)),
		Right:  int(math.Round(b.Right)),
		Bottom: int(math.Round(b.Bottom)),
	}
}

// Target is a node selected for import.
//
// A Target is created by selection with only ID and Name populated. The
// border is filled in right after, and HasBorder records that it was.
type Target struct {
	ID        string
	Name      string
	Border    Border
	HasBorder bool
}

// WithBorder returns a copy of the target with its border set.
func (t Target) WithBorder(b Border) Target {
	t.Border = b
	t.HasBorder = true
	return t
}

// AssetRequest is the hand-off record given to an asset sink: one
// rendered image plus the target it belongs to.
type AssetRequest struct {
	// OutputDir is the directory the image is written under.
	OutputDir string

	// FileKey identifies the design file the image came from.
	FileKey string

	// Target is the measured target.
	Target Target

	// Image holds the rendered PNG bytes.
	Image []byte

	// Scale is the export scale the image was rendered at.
	Scale float64
}

// FileName returns the output file name for the request, "{name}.png".
func (r AssetRequest) FileName() string {
	return SafeFileName(r.Target.Name) + ".png"
}
