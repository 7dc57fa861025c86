package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chartpress/chartpress/core"
	"github.com/chartpress/chartpress/internal/contract"
	"github.com/chartpress/chartpress/internal/ledger"
	"github.com/chartpress/chartpress/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.HistoryManager
}

func (h *toolHandler) handlePreviewReleaseLedger(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := request.GetString("tag", "")
	if tag == "" {
		return mcp.NewToolResultError("tag is required"), nil
	}

	uri := request.GetString("uri", "")
	if uri == "" {
		uri = core.ReleaseURI(h.baseCfg, tag)
	}

	doc := request.GetString("document", "")
	if doc == "" {
		doc = ledger.Seed(h.baseCfg.LedgerPreamble)
	}

	updated := ledger.Update(doc, schema.ReleaseEntry{Tag: tag, URI: uri})
	return mcp.NewToolResultText(updated), nil
}

func (h *toolHandler) handleListDeployments(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)

	records, err := h.mgr.GetStore().ListRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list deployments: %v", err)), nil
	}
	if records == nil {
		records = []schema.DeploymentRecord{}
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDeploymentStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.mgr.GetStore().GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get deployment status: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
