package slicing

import (
	"math/rand"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

func ids(targets []domain.Target) []string {
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.ID)
	}
	return out
}

func TestSelect_EmptyDocument(t *testing.T) {
	root := domain.Node{ID: "0:0", Name: "Document", Kind: "DOCUMENT"}

	targets := Select(root, regexp.MustCompile(`^btn_.*`))

	assert.Empty(t, targets)
}

func TestSelect_RootMatches(t *testing.T) {
	root := domain.Node{
		ID:       "0:0",
		Name:     "btn_root",
		Children: []domain.Node{{ID: "1:1", Name: "btn_child"}},
	}

	targets := Select(root, regexp.MustCompile(`^btn_`))

	assert.Equal(t, []string{"0:0"}, ids(targets))
}

func TestSelect_NestedMatchSuppressed(t *testing.T) {
	root := domain.Node{
		ID:   "0:0",
		Name: "Document",
		Children: []domain.Node{{
			ID:   "0:1",
			Name: "Page 1",
			Children: []domain.Node{{
				ID:       "1:2",
				Name:     "btn_panel",
				Children: []domain.Node{{ID: "1:3", Name: "btn_icon"}},
			}},
		}},
	}

	targets := Select(root, regexp.MustCompile(`^btn_.*`))

	require.Len(t, targets, 1)
	assert.Equal(t, "1:2", targets[0].ID)
	assert.Equal(t, "btn_panel", targets[0].Name)
	assert.False(t, targets[0].HasBorder)
}

func TestSelect_TextSubtreeExcluded(t *testing.T) {
	root := domain.Node{
		ID:   "0:0",
		Name: "Document",
		Children: []domain.Node{
			{ID: "1:1", Name: "btn_label", Kind: domain.KindText},
			{
				ID:       "1:2",
				Name:     "group",
				Kind:     domain.KindText,
				Children: []domain.Node{{ID: "1:3", Name: "btn_hidden", Kind: "FRAME"}},
			},
			{ID: "1:4", Name: "btn_frame", Kind: "FRAME"},
		},
	}

	targets := Select(root, regexp.MustCompile(`btn_`))

	assert.Equal(t, []string{"1:4"}, ids(targets))
}

func TestSelect_PreOrder(t *testing.T) {
	root := domain.Node{
		ID:   "0",
		Name: "Document",
		Children: []domain.Node{
			{ID: "a", Name: "page", Children: []domain.Node{
				{ID: "a1", Name: "btn_1"},
				{ID: "a2", Name: "frame", Children: []domain.Node{
					{ID: "a2x", Name: "btn_2"},
				}},
				{ID: "a3", Name: "btn_3"},
			}},
			{ID: "b", Name: "btn_4"},
			{ID: "c", Name: "leaf"},
		},
	}

	targets := Select(root, regexp.MustCompile(`^btn_`))

	assert.Equal(t, []string{"a1", "a2x", "a3", "b"}, ids(targets))
}

func TestSelect_PatternMatchesAnywhereInName(t *testing.T) {
	root := domain.Node{
		ID:       "0",
		Name:     "Document",
		Children: []domain.Node{{ID: "1", Name: "ui/btn_ok"}, {ID: "2", Name: "panel"}},
	}

	targets := Select(root, regexp.MustCompile(`btn_`))

	assert.Equal(t, []string{"1"}, ids(targets))
}

func TestSelectAndMeasure_FillsBorders(t *testing.T) {
	root := domain.Node{
		ID:   "0",
		Name: "Document",
		Children: []domain.Node{{
			ID:     "1",
			Name:   "btn_panel",
			Bounds: domain.Rect{X: 0, Y: 0, Width: 100, Height: 100},
			Children: []domain.Node{{
				ID:          "2",
				Bounds:      domain.Rect{X: 0, Y: 0, Width: 10, Height: 100},
				Constraints: domain.Constraints{Horizontal: domain.AnchorLeft},
			}},
		}},
	}

	targets := SelectAndMeasure(root, regexp.MustCompile(`^btn_`))

	require.Len(t, targets, 1)
	assert.True(t, targets[0].HasBorder)
	assert.Equal(t, domain.Border{Left: 10}, targets[0].Border)
}

func TestSelect_DeepTree(t *testing.T) {
	// Deep enough that naive recursion would be costly; the explicit stack
	// keeps this flat.
	const depth = 100000
	leaf := domain.Node{ID: "leaf", Name: "btn_deep"}
	for i := 0; i < depth; i++ {
		leaf = domain.Node{ID: strconv.Itoa(i), Name: "group", Children: []domain.Node{leaf}}
	}

	targets := Select(leaf, regexp.MustCompile(`^btn_`))

	assert.Equal(t, []string{"leaf"}, ids(targets))
}

// randomTree builds a random tree. Names are drawn from a small pool so that
// matches, nested matches and text nodes all occur.
func randomTree(r *rand.Rand, id *int, depth int) domain.Node {
	names := []string{"btn_a", "frame", "group", "btn_b", "icon"}
	kinds := []string{"FRAME", "GROUP", domain.KindText, "RECTANGLE"}
	*id++
	n := domain.Node{
		ID:   strconv.Itoa(*id),
		Name: names[r.Intn(len(names))],
		Kind: kinds[r.Intn(len(kinds))],
	}
	if depth > 0 {
		for i := r.Intn(4); i > 0; i-- {
			n.Children = append(n.Children, randomTree(r, id, depth-1))
		}
	}
	return n
}

// reference is a straightforward recursive statement of the selection rules.
func reference(n domain.Node, re *regexp.Regexp, out *[]string) {
	if n.Kind == domain.KindText {
		return
	}
	if re.MatchString(n.Name) {
		*out = append(*out, n.ID)
		return
	}
	for _, c := range n.Children {
		reference(c, re, out)
	}
}

// ancestors maps every node id to the ids of its ancestors.
func ancestors(n domain.Node, path []string, out map[string][]string) {
	out[n.ID] = append([]string(nil), path...)
	for _, c := range n.Children {
		ancestors(c, append(path, n.ID), out)
	}
}

func kindOf(n domain.Node, out map[string]string) {
	out[n.ID] = n.Kind
	for _, c := range n.Children {
		kindOf(c, out)
	}
}

func TestSelect_Properties(t *testing.T) {
	re := regexp.MustCompile(`^btn_`)
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		id := 0
		root := randomTree(r, &id, 5)

		got := ids(Select(root, re))

		want := []string{}
		reference(root, re, &want)
		assert.Equal(t, want, got, "pre-order with first-match-wins")

		anc := make(map[string][]string)
		ancestors(root, nil, anc)
		kinds := make(map[string]string)
		kindOf(root, kinds)

		selected := make(map[string]bool)
		for _, id := range got {
			selected[id] = true
		}
		for _, id := range got {
			assert.NotEqual(t, domain.KindText, kinds[id], "text nodes are never targets")
			for _, a := range anc[id] {
				assert.False(t, selected[a], "no target is a descendant of another")
				assert.NotEqual(t, domain.KindText, kinds[a], "no target lives under a text node")
			}
		}
	}
}
