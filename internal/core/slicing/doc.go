// Package slicing selects nine-slice targets from a design document tree and
// infers their borders.
//
// Both operations are pure: they read an immutable domain.Node tree, do no
// I/O and never fail, so they are safe to call from any goroutine.
//
// # Selection
//
// Select walks the tree depth-first in pre-order. Text nodes end their
// branch. The first node on each path whose name matches the pattern becomes
// a target and its subtree is not searched further.
//
// # Border inference
//
// ComputeBorder looks only at the direct children of a target. A child
// anchored LEFT pushes the left inset out to its right edge, RIGHT pushes the
// right inset to its left edge, and likewise TOP and BOTTOM vertically. The
// largest push on each side wins. Every side starts at zero, so the result is
// never negative.
package slicing
