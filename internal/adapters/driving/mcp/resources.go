package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for nineslice resources.
	uriScheme = "nineslice://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent import runs, most recent first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{runId}",
		Name:        "run",
		Description: "One import run with the outcome of every target",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

type runInfo struct {
	ID        string         `json:"id"`
	FileKey   string         `json:"file_key"`
	Pattern   string         `json:"pattern"`
	OutputDir string         `json:"output_dir"`
	Phase     string         `json:"phase"`
	Error     string         `json:"error,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	Failed    int            `json:"failed"`
	Targets   []TargetOutput `json:"targets,omitempty"`
}

func toRunInfo(run domain.ImportRun) runInfo {
	info := runInfo{
		ID:        run.ID,
		FileKey:   run.FileKey,
		Pattern:   run.Pattern,
		OutputDir: run.OutputDir,
		Phase:     string(run.Phase),
		Error:     run.Error,
		StartedAt: run.StartedAt,
		Failed:    run.CountFailed(),
	}
	if !run.EndedAt.IsZero() {
		ended := run.EndedAt
		info.EndedAt = &ended
	}
	for _, t := range run.Targets {
		info.Targets = append(info.Targets, TargetOutput{
			NodeID: t.NodeID,
			Name:   t.Name,
			Border: BorderOutput{
				Left:   t.Border.Left,
				Top:    t.Border.Top,
				Right:  t.Border.Right,
				Bottom: t.Border.Bottom,
			},
			Path:  t.Path,
			Error: t.Error,
		})
	}
	return info
}

// handleRunsResource returns recent import runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return jsonResult(req.Params.URI, []runInfo{})
	}

	runs, err := s.ports.History.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = toRunInfo(runs[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleRunResource returns one run with its targets.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.History == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract runId from URI: nineslice://runs/{runId}
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.History.Get(ctx, runID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return jsonResult(req.Params.URI, toRunInfo(*run))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like nineslice://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
