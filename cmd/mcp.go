package cmd

import (
	"github.com/spf13/cobra"

	"github.com/revflo/revaudit/internal/iocache"
	"github.com/revflo/revaudit/internal/mcp"
)

// mcpCmd starts the MCP server over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start an MCP server exposing audit tools over stdio",
	Long: `Start a Model Context Protocol (MCP) server that exposes audit
operations as tools for AI assistants and editors.

Available tools:
  run_audit     - Run a full multi-dimension audit of a repository commit
  risk_scan     - Run the legacy single-score risk scan
  audit_status  - Report audit storage statistics
  get_audit_run - Fetch a stored audit run and its dimension results

The server communicates over stdio, so it is meant to be launched by an MCP
client rather than interactively.

Examples:
  # Start the server for the current repository
  revaudit mcp

  # Serve a different repository with audit tracking enabled
  revaudit mcp ~/src/billing --audit-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, gitClient, iocache.Manager)
	},
}
