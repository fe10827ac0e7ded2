// Package domain defines the core types for nineslice.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Node: An element of a design document tree with geometry and constraints
//   - Target: A node selected for import, with its nine-slice Border
//   - ImportConfig: The explicit configuration for one import run
//   - ImportReport / ImportRun: The outcome of a run, live and persisted
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
