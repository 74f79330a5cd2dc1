package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/revflo/revaudit/core"
	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	mgr     contract.StoreManager
}

// resolveRepoOverrides applies a repo_path override: the root, identity,
// and target commit are re-resolved against the new repository.
func (h *toolHandler) resolveRepoOverrides(ctx context.Context, cfg *contract.Config, repoPath string) error {
	if repoPath == "" {
		return nil
	}
	root, err := h.client.GetRepoRoot(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("cannot resolve repository at %q: %w", repoPath, err)
	}
	cfg.RepoPath = root
	cfg.RepoID = contract.DeriveRepoID(root)

	head, err := h.client.GetRepoHash(ctx, root)
	if err != nil {
		return fmt.Errorf("cannot resolve HEAD for %q: %w", root, err)
	}
	cfg.CommitSHA = head
	return nil
}

func (h *toolHandler) handleRunAudit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := h.resolveRepoOverrides(ctx, cfg, request.GetString("repo_path", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if c := request.GetString("commit", ""); c != "" {
		cfg.CommitSHA = c
	}
	cfg.BaseCommit = request.GetString("base_commit", cfg.BaseCommit)

	report, err := core.NewOrchestrator(cfg, h.client, h.mgr).Execute(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("audit failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRiskScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := h.resolveRepoOverrides(ctx, cfg, request.GetString("repo_path", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := core.NewOrchestrator(cfg, h.client, h.mgr).RunRisk(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("risk scan failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAuditStatus(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	store := h.mgr.GetAuditStore()
	if store == nil {
		return mcp.NewToolResultError("audit storage is not initialized"), nil
	}

	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetAuditRun(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID := request.GetInt("run_id", 0)
	if runID <= 0 {
		return mcp.NewToolResultError("run_id must be a positive integer"), nil
	}

	store := h.mgr.GetAuditStore()
	if store == nil {
		return mcp.NewToolResultError("audit storage is not initialized"), nil
	}

	run, err := store.GetAuditRun(int64(runID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("run lookup failed: %v", err)), nil
	}
	results, err := store.GetDimensionResults(int64(runID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("result lookup failed: %v", err)), nil
	}

	report := schema.AuditReport{Run: *run, Results: results}
	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
