// Package mcp provides an MCP (Model Context Protocol) server adapter for
// nineslice. It lets AI assistants inspect design files and run imports.
package mcp

import "errors"

// ErrMissingImporter is returned when the importer is not provided.
var ErrMissingImporter = errors.New("mcp: importer is required")
