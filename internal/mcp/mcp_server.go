// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/revflo/revaudit/internal/contract"
)

// NewMCPServer initializes and configures the audit MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Code Health Audit Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: run_audit ---
	s.AddTool(mcp.NewTool("run_audit",
		mcp.WithDescription("Run a full multi-dimension code health audit over a repository commit."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository).")),
		mcp.WithString("commit", mcp.Description("Commit to audit (defaults to HEAD).")),
		mcp.WithString("base_commit", mcp.Description("Previously audited commit; enables an incremental scan.")),
	), h.handleRunAudit)

	// --- 2. Tool: risk_scan ---
	s.AddTool(mcp.NewTool("risk_scan",
		mcp.WithDescription("Run the legacy single-score risk scan over a repository."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
	), h.handleRiskScan)

	// --- 3. Tool: audit_status ---
	s.AddTool(mcp.NewTool("audit_status",
		mcp.WithDescription("Report audit storage status: run counts, total issues, and table sizes."),
	), h.handleAuditStatus)

	// --- 4. Tool: get_audit_run ---
	s.AddTool(mcp.NewTool("get_audit_run",
		mcp.WithDescription("Fetch a stored audit run and its dimension results by run ID."),
		mcp.WithNumber("run_id", mcp.Description("The audit run identifier."), mcp.Required()),
	), h.handleGetAuditRun)

	return s
}

// StartMCPServer starts the audit MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
