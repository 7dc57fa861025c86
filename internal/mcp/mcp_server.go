// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/chartpress/chartpress/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Chartpress MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.HistoryManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Chartpress Deployment Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: preview_release_ledger ---
	s.AddTool(mcp.NewTool("preview_release_ledger",
		mcp.WithDescription("Apply a release entry to a Markdown release ledger and return the updated document without touching any repository."),
		mcp.WithString("document", mcp.Description("The current ledger document content. An empty document is seeded with a preamble.")),
		mcp.WithString("tag", mcp.Description("The release tag to record, e.g. v1.2.3."), mcp.Required()),
		mcp.WithString("uri", mcp.Description("The release page link. Derived from the configured target repository when omitted.")),
	), h.handlePreviewReleaseLedger)

	// --- 2. Tool: list_deployments ---
	s.AddTool(mcp.NewTool("list_deployments",
		mcp.WithDescription("List recorded chart deployment runs, newest first."),
		mcp.WithNumber("limit", mcp.Description("Limit the number of runs returned. Defaults to 25.")),
	), h.handleListDeployments)

	// --- 3. Tool: get_deployment_status ---
	s.AddTool(mcp.NewTool("get_deployment_status",
		mcp.WithDescription("Summarize the deployment history store: backend, total runs, and per-outcome counts."),
	), h.handleGetDeploymentStatus)

	return s
}

// StartMCPServer starts the Chartpress MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.HistoryManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
