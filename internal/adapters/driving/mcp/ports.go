package mcp

import (
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Importer runs inspections and imports.
	Importer driving.Importer

	// Settings supplies the saved profile that tool inputs override.
	Settings driving.SettingsService

	// History exposes past runs as resources.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Importer == nil {
		return ErrMissingImporter
	}
	// Settings and History are optional
	return nil
}
