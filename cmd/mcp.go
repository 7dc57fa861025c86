package cmd

import (
	"github.com/chartpress/chartpress/internal/history"
	"github.com/chartpress/chartpress/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Chartpress MCP server",
	Long:  `Launch an MCP server that allows AI agents to preview ledger updates and inspect deployment history via standard tools.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		// The MCP tools only need the ledger config and the history store,
		// so the lightweight setups are enough. Keeping stdout clean also
		// matters here since stdio carries the protocol.
		if err := ledgerSetup(); err != nil {
			return err
		}
		return historySetup()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		defer func() { _ = history.CloseStore() }()
		return mcp.StartMCPServer(rootCtx, cfg, history.Manager)
	},
}
