package mcp_test

import (
	"context"
	"strings"
	"testing"

	"github.com/chartpress/chartpress/internal/contract"
	mcp_internal "github.com/chartpress/chartpress/internal/mcp"
	"github.com/chartpress/chartpress/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		TargetRepo:   "acme/charts",
		TargetBranch: "gh-pages",
		PagesHost:    "https://github.com",
		LedgerFile:   "README.md",
	}
}

func TestMCPServerPreviewReleaseLedger(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), &contract.MockHistoryManager{})
	ctx := context.Background()

	tool := s.GetTool("preview_release_ledger")
	require.NotNil(t, tool, "Tool preview_release_ledger should exist")

	t.Run("missing tag", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "preview_release_ledger",
				Arguments: map[string]any{"document": "# Charts\n"},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "tag is required")
	})

	t.Run("inserts entry with derived uri", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "preview_release_ledger",
				Arguments: map[string]any{
					"document": "# Charts\n\n* [v1.0.0](https://github.com/acme/charts/releases/tag/v1.0.0)\n",
					"tag":      "v1.1.0",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)

		text := res.Content[0].(mcp.TextContent).Text
		lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
		assert.Equal(t, "* [v1.1.0](https://github.com/acme/charts/releases/tag/v1.1.0)", lines[2])
		assert.Contains(t, text, "v1.0.0")
	})

	t.Run("empty document gets seeded", func(t *testing.T) {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "preview_release_ledger",
				Arguments: map[string]any{"tag": "v0.1.0"},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "[v0.1.0]")
	})
}

func TestMCPServerListDeployments(t *testing.T) {
	store := &contract.MockHistoryStore{}
	store.On("ListRuns", 5).Return([]schema.DeploymentRecord{
		{ID: 7, Ref: "v2.0.0", Status: schema.PublishedStatus},
	}, nil)

	s := mcp_internal.NewMCPServer(baseConfig(), &contract.MockHistoryManager{Store: store})

	tool := s.GetTool("list_deployments")
	require.NotNil(t, tool, "Tool list_deployments should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "list_deployments",
			Arguments: map[string]any{"limit": 5.0},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"ref": "v2.0.0"`)
	store.AssertExpectations(t)
}

func TestMCPServerGetDeploymentStatus(t *testing.T) {
	store := &contract.MockHistoryStore{}
	store.On("GetStatus").Return(schema.HistoryStatus{
		Backend:   "sqlite",
		Connected: true,
		TotalRuns: 3,
	}, nil)

	s := mcp_internal.NewMCPServer(baseConfig(), &contract.MockHistoryManager{Store: store})

	tool := s.GetTool("get_deployment_status")
	require.NotNil(t, tool, "Tool get_deployment_status should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "get_deployment_status"},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"totalRuns": 3`)
	store.AssertExpectations(t)
}
