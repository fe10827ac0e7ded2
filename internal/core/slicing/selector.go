package slicing

import (
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// Matcher decides whether a layer name selects a target.
// *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(s string) bool
}

// Select returns a target for every node whose name matches pattern, in
// document pre-order. Targets have no border yet.
//
// Text nodes and everything below them are skipped. A matched node's
// descendants are never searched, so targets never nest.
func Select(root domain.Node, pattern Matcher) []domain.Target {
	var targets []domain.Target
	walk(&root, pattern, func(n *domain.Node) {
		targets = append(targets, domain.Target{ID: n.ID, Name: n.Name})
	})
	return targets
}

// SelectAndMeasure selects targets and fills in each border as soon as the
// target is found.
func SelectAndMeasure(root domain.Node, pattern Matcher) []domain.Target {
	var targets []domain.Target
	walk(&root, pattern, func(n *domain.Node) {
		target := domain.Target{ID: n.ID, Name: n.Name}
		targets = append(targets, target.WithBorder(ComputeBorder(*n)))
	})
	return targets
}

// walk visits matched nodes in pre-order. It uses an explicit stack, so
// depth is bounded by memory rather than the goroutine stack.
func walk(root *domain.Node, pattern Matcher, emit func(*domain.Node)) {
	stack := []*domain.Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.IsText() {
			continue
		}
		if pattern.MatchString(node.Name) {
			emit(node)
			continue
		}

		// Push in reverse so the first child is visited first.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, &node.Children[i])
		}
	}
}
