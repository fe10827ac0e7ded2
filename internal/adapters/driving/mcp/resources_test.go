package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

func TestExtractRunID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid run URI",
			uri:      "nineslice://runs/run-123",
			expected: "run-123",
		},
		{
			name:     "invalid prefix",
			uri:      "file://runs/run-123",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "nineslice://runs/run-123/targets",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractRunID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleRunsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("no history returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Importer: &mockImporter{}})
		require.NoError(t, err)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("nineslice://runs"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists runs", func(t *testing.T) {
		started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		history := &mockHistoryService{
			runs: []domain.ImportRun{
				{ID: "run-2", FileKey: "abc", Phase: domain.PhaseDone, StartedAt: started, EndedAt: started.Add(time.Second)},
				{ID: "run-1", FileKey: "abc", Phase: domain.PhaseFailed, Error: "transport error", StartedAt: started},
			},
		}
		server, err := NewServer(&Ports{Importer: &mockImporter{}, History: history})
		require.NoError(t, err)

		result, err := server.handleRunsResource(ctx, makeReadResourceRequest("nineslice://runs"))
		require.NoError(t, err)

		var infos []runInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 2)
		assert.Equal(t, "run-2", infos[0].ID)
		assert.NotNil(t, infos[0].EndedAt)
		assert.Nil(t, infos[1].EndedAt)
		assert.Equal(t, "transport error", infos[1].Error)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("returns error on history failure", func(t *testing.T) {
		history := &mockHistoryService{err: errors.New("database locked")}
		server, err := NewServer(&Ports{Importer: &mockImporter{}, History: history})
		require.NoError(t, err)

		_, err = server.handleRunsResource(ctx, makeReadResourceRequest("nineslice://runs"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database locked")
	})
}

func TestServer_handleRunResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns run with targets", func(t *testing.T) {
		history := &mockHistoryService{
			run: &domain.ImportRun{
				ID:    "run-1",
				Phase: domain.PhaseDone,
				Targets: []domain.RunTarget{
					{NodeID: "1:2", Name: "btn_ok", Border: domain.Border{Left: 4}, Path: "/out/btn_ok.png"},
					{NodeID: "1:3", Name: "btn_bad", Error: "no rendered image for target"},
				},
			},
		}
		server, err := NewServer(&Ports{Importer: &mockImporter{}, History: history})
		require.NoError(t, err)

		result, err := server.handleRunResource(ctx, makeReadResourceRequest("nineslice://runs/run-1"))
		require.NoError(t, err)

		var info runInfo
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
		assert.Equal(t, "run-1", info.ID)
		assert.Equal(t, 1, info.Failed)
		require.Len(t, info.Targets, 2)
		assert.Equal(t, 4.0, info.Targets[0].Border.Left)
		assert.Equal(t, "/out/btn_ok.png", info.Targets[0].Path)
	})

	t.Run("unknown run is not found", func(t *testing.T) {
		history := &mockHistoryService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Importer: &mockImporter{}, History: history})
		require.NoError(t, err)

		_, err = server.handleRunResource(ctx, makeReadResourceRequest("nineslice://runs/missing"))

		require.Error(t, err)
		assert.False(t, errors.Is(err, domain.ErrNotFound), "mapped to a resource-not-found error")
	})

	t.Run("invalid URI is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Importer: &mockImporter{}, History: &mockHistoryService{}})
		require.NoError(t, err)

		_, err = server.handleRunResource(ctx, makeReadResourceRequest("nineslice://other/run-1"))

		require.Error(t, err)
	})

	t.Run("no history is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Importer: &mockImporter{}})
		require.NoError(t, err)

		_, err = server.handleRunResource(ctx, makeReadResourceRequest("nineslice://runs/run-1"))

		require.Error(t, err)
	})
}
