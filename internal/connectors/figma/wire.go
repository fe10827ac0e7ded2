package figma

import (
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// fileResponse is the body of GET /v1/files/:key. Only the fields the
// importer reads are declared.
type fileResponse struct {
	Name     string    `json:"name"`
	Document *nodeJSON `json:"document"`
}

// nodeJSON is one node of a Figma document.
type nodeJSON struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Type                 string          `json:"type"`
	Children             []nodeJSON      `json:"children"`
	Constraints          *constraintJSON `json:"constraints"`
	AbsoluteRenderBounds *rectJSON       `json:"absoluteRenderBounds"`
	AbsoluteBoundingBox  *rectJSON       `json:"absoluteBoundingBox"`
}

type constraintJSON struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
}

type rectJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// imagesResponse is the body of GET /v1/images/:key. A null URL means the
// node could not be rendered.
type imagesResponse struct {
	Err    *string            `json:"err"`
	Images map[string]*string `json:"images"`
}

// errorResponse is the body Figma sends with error statuses.
type errorResponse struct {
	Status  int    `json:"status"`
	Err     string `json:"err"`
	Message string `json:"message"`
}

// toDomain converts a wire node and its subtree into a domain.Node.
//
// Geometry comes from absoluteRenderBounds, which covers what is actually
// drawn. Hidden nodes report null render bounds, in which case the layout
// box is used instead.
func (n *nodeJSON) toDomain() domain.Node {
	node := domain.Node{
		ID:     n.ID,
		Name:   n.Name,
		Kind:   n.Type,
		Bounds: n.bounds(),
	}
	if n.Constraints != nil {
		node.Constraints = domain.Constraints{
			Horizontal: domain.Anchor(n.Constraints.Horizontal),
			Vertical:   domain.Anchor(n.Constraints.Vertical),
		}
	}
	if len(n.Children) > 0 {
		node.Children = make([]domain.Node, len(n.Children))
		for i := range n.Children {
			node.Children[i] = n.Children[i].toDomain()
		}
	}
	return node
}

func (n *nodeJSON) bounds() domain.Rect {
	r := n.AbsoluteRenderBounds
	if r == nil {
		r = n.AbsoluteBoundingBox
	}
	if r == nil {
		return domain.Rect{}
	}
	return domain.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// urls flattens the images map, dropping ids with no rendered image.
func (r *imagesResponse) urls() map[string]string {
	out := make(map[string]string, len(r.Images))
	for id, u := range r.Images {
		if u != nil && *u != "" {
			out[id] = *u
		}
	}
	return out
}
