// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for an import to run:
//
//   - DocumentSource: Fetches the document tree and batched image URLs (Figma)
//   - ImageFetcher: Downloads rendered image bytes
//   - AssetSink: Writes "{name}.png" and its sprite configuration
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Records finished runs. Without it, `history` has nothing to show.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
