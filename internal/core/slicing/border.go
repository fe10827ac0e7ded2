package slicing

import (
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// ComputeBorder infers the nine-slice border of target from the geometry and
// anchors of its direct children. Grandchildren never contribute.
//
// A target without children has a zero border.
func ComputeBorder(target domain.Node) domain.Border {
	var border domain.Border
	bounds := target.Bounds

	for i := range target.Children {
		child := &target.Children[i]
		cb := child.Bounds

		switch child.Constraints.Horizontal {
		case domain.AnchorLeft:
			border.Left = max(border.Left, cb.MaxX()-bounds.X)
		case domain.AnchorRight:
			border.Right = max(border.Right, bounds.MaxX()-cb.X)
		}

		switch child.Constraints.Vertical {
		case domain.AnchorTop:
			border.Top = max(border.Top, cb.MaxY()-bounds.Y)
		case domain.AnchorBottom:
			border.Bottom = max(border.Bottom, bounds.MaxY()-cb.Y)
		}
	}

	return border
}
