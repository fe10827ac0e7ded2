package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// SourceInput selects a design file and the layers to slice. Empty fields
// fall back to the saved settings.
type SourceInput struct {
	FileKey string `json:"file_key,omitempty" jsonschema:"the Figma file key (defaults to the saved file key)"`
	Pattern string `json:"pattern,omitempty" jsonschema:"regular expression matched against layer names"`
}

// ImportInput is the input schema for the import_slices tool.
type ImportInput struct {
	FileKey   string  `json:"file_key,omitempty" jsonschema:"the Figma file key (defaults to the saved file key)"`
	Pattern   string  `json:"pattern,omitempty" jsonschema:"regular expression matched against layer names"`
	OutputDir string  `json:"output_dir,omitempty" jsonschema:"existing directory to write sprites to"`
	Scale     float64 `json:"scale,omitempty" jsonschema:"image export scale (default 1)"`
}

// BorderOutput is a nine-slice border in document units.
type BorderOutput struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// TargetOutput is one measured target.
type TargetOutput struct {
	NodeID string       `json:"node_id"`
	Name   string       `json:"name"`
	Border BorderOutput `json:"border"`
	Path   string       `json:"path,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// InspectOutput is the output schema for the inspect_targets tool.
type InspectOutput struct {
	Targets []TargetOutput `json:"targets"`
	Count   int            `json:"count"`
}

// ImportOutput is the output schema for the import_slices tool.
type ImportOutput struct {
	RunID     string         `json:"run_id"`
	Phase     string         `json:"phase"`
	Targets   []TargetOutput `json:"targets"`
	Persisted int            `json:"persisted"`
	Failed    int            `json:"failed"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "inspect_targets",
		Description: "List the nine-slice targets in a Figma file with their computed borders, without writing anything",
	}, s.handleInspect)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_slices",
		Description: "Import nine-slice sprites from a Figma file into the output directory",
	}, s.handleImport)
}

// handleInspect handles the inspect_targets tool invocation.
func (s *Server) handleInspect(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SourceInput,
) (*mcp.CallToolResult, InspectOutput, error) {
	cfg, err := s.baseConfig()
	if err != nil {
		return nil, InspectOutput{}, err
	}
	input.apply(&cfg)

	targets, err := s.ports.Importer.Inspect(ctx, cfg)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	output := InspectOutput{
		Targets: make([]TargetOutput, len(targets)),
		Count:   len(targets),
	}
	for i, t := range targets {
		output.Targets[i] = targetOutput(t)
	}
	return nil, output, nil
}

// handleImport handles the import_slices tool invocation. Per-target
// failures are reported in the output, not as a tool error.
func (s *Server) handleImport(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportInput,
) (*mcp.CallToolResult, ImportOutput, error) {
	cfg, err := s.baseConfig()
	if err != nil {
		return nil, ImportOutput{}, err
	}
	SourceInput{FileKey: input.FileKey, Pattern: input.Pattern}.apply(&cfg)
	if input.OutputDir != "" {
		cfg.OutputDir = input.OutputDir
	}
	if input.Scale > 0 {
		cfg.Scale = input.Scale
	}

	report, err := s.ports.Importer.Import(ctx, cfg)
	if err != nil {
		return nil, ImportOutput{}, fmt.Errorf("import: %w", err)
	}

	output := ImportOutput{
		RunID:   report.RunID,
		Phase:   string(report.Phase),
		Targets: make([]TargetOutput, len(report.Results)),
	}
	for i, res := range report.Results {
		out := targetOutput(res.Target)
		out.Path = res.Path
		if res.Err != nil {
			out.Error = res.Err.Error()
			output.Failed++
		} else {
			output.Persisted++
		}
		output.Targets[i] = out
	}
	return nil, output, nil
}

// baseConfig returns the saved import profile, or defaults when no
// settings service is wired.
func (s *Server) baseConfig() (domain.ImportConfig, error) {
	if s.ports.Settings == nil {
		return domain.DefaultImportConfig(), nil
	}
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return domain.ImportConfig{}, fmt.Errorf("loading settings: %w", err)
	}
	return settings.Import, nil
}

func (in SourceInput) apply(cfg *domain.ImportConfig) {
	if in.FileKey != "" {
		cfg.FileKey = in.FileKey
	}
	if in.Pattern != "" {
		cfg.TargetPattern = in.Pattern
	}
}

func targetOutput(t domain.Target) TargetOutput {
	return TargetOutput{
		NodeID: t.ID,
		Name:   t.Name,
		Border: BorderOutput{
			Left:   t.Border.Left,
			Top:    t.Border.Top,
			Right:  t.Border.Right,
			Bottom: t.Border.Bottom,
		},
	}
}
