package domain

// KindText marks text leaves. Text nodes are never import targets and never
// contain targets.
const KindText = "TEXT"

// Rect is an axis-aligned rectangle in document coordinate space.
// Y grows downwards, as in the Figma canvas.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// MaxX returns the right edge X coordinate.
func (r Rect) MaxX() float64 {
	return r.X + r.Width
}

// MaxY returns the bottom edge Y coordinate.
func (r Rect) MaxY() float64 {
	return r.Y + r.Height
}

// Anchor is a per-axis layout constraint mode.
type Anchor string

// Anchor values reported by the document API. Only the four fixed-edge
// anchors contribute to border inference; everything else is inert.
const (
	AnchorLeft      Anchor = "LEFT"
	AnchorRight     Anchor = "RIGHT"
	AnchorTop       Anchor = "TOP"
	AnchorBottom    Anchor = "BOTTOM"
	AnchorCenter    Anchor = "CENTER"
	AnchorScale     Anchor = "SCALE"
	AnchorLeftRight Anchor = "LEFT_RIGHT"
	AnchorTopBottom Anchor = "TOP_BOTTOM"
)

// Constraints holds the horizontal and vertical anchor of a node relative
// to its parent.
type Constraints struct {
	Horizontal Anchor
	Vertical   Anchor
}

// Node is one element of a design document tree.
//
// Children are owned exclusively by their parent, so a Node value is always
// an acyclic tree.
type Node struct {
	// ID is an opaque identifier, unique within a document.
	ID string

	// Name is the layer name shown in the design tool. Not unique.
	Name string

	// Kind is the node type discriminator (e.g. "FRAME", "TEXT").
	Kind string

	// Bounds is the node's rectangle in document coordinates.
	Bounds Rect

	// Constraints describes how the node is anchored inside its parent.
	Constraints Constraints

	// Children are the direct children in document order. Nil for leaves.
	Children []Node
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool {
	return n.Kind == KindText
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Count returns the number of nodes in the tree rooted at n, including n.
func (n *Node) Count() int {
	count := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		for i := range cur.Children {
			stack = append(stack, &cur.Children[i])
		}
	}
	return count
}
