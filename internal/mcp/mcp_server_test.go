package mcp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/iocache"
	mcp_internal "github.com/revflo/revaudit/internal/mcp"
	"github.com/revflo/revaudit/schema"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerToolsExist(t *testing.T) {
	baseCfg := &contract.Config{RepoPath: ".", Rules: schema.DefaultRuleSet()}
	s := mcp_internal.NewMCPServer(baseCfg, &contract.MockGitClient{}, &iocache.MockStoreManager{})

	for _, name := range []string{"run_audit", "risk_scan", "audit_status", "get_audit_run"} {
		assert.NotNil(t, s.GetTool(name), name)
	}
}

func TestRunAuditBadRepoPath(t *testing.T) {
	baseCfg := &contract.Config{RepoPath: ".", Rules: schema.DefaultRuleSet()}
	client := &contract.MockGitClient{}
	client.On("GetRepoRoot", mock.Anything, "/nowhere").
		Return("", errors.New("not a git repository"))

	s := mcp_internal.NewMCPServer(baseCfg, client, &iocache.MockStoreManager{})
	tool := s.GetTool("run_audit")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), callRequest("run_audit", map[string]any{
		"repo_path": "/nowhere",
	}))
	require.NoError(t, err, "tool logic failures surface as error results, not raw errors")
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "cannot resolve repository")
}

func TestAuditStatusReportsStoreState(t *testing.T) {
	auditStore := &iocache.MockAuditStore{}
	auditStore.On("GetStatus").Return(schema.AuditStatus{
		Backend:     string(schema.SQLiteBackend),
		Connected:   true,
		TotalIssues: 42,
	}, nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAuditStore").Return(auditStore)

	s := mcp_internal.NewMCPServer(&contract.Config{}, &contract.MockGitClient{}, mgr)
	tool := s.GetTool("audit_status")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), callRequest("audit_status", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "42")
}

func TestAuditStatusWithoutStore(t *testing.T) {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAuditStore").Return(nil)

	s := mcp_internal.NewMCPServer(&contract.Config{}, &contract.MockGitClient{}, mgr)
	tool := s.GetTool("audit_status")

	res, err := tool.Handler(context.Background(), callRequest("audit_status", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "not initialized")
}

func TestGetAuditRunValidation(t *testing.T) {
	s := mcp_internal.NewMCPServer(&contract.Config{}, &contract.MockGitClient{}, &iocache.MockStoreManager{})
	tool := s.GetTool("get_audit_run")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), callRequest("get_audit_run", map[string]any{
		"run_id": 0.0,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "run_id must be a positive integer")
}

func TestGetAuditRunReturnsStoredReport(t *testing.T) {
	auditStore := &iocache.MockAuditStore{}
	auditStore.On("GetAuditRun", int64(5)).Return(&schema.AuditRun{
		ID:           5,
		RepoID:       "acme-widgets",
		CommitSHA:    "abc123",
		Status:       schema.CompletedStatus,
		StartedAt:    time.Now().Add(-time.Minute),
		CompletedAt:  time.Now(),
		OverallScore: 88,
	}, nil)
	auditStore.On("GetDimensionResults", int64(5)).Return([]*schema.DimensionScanResult{
		{ScanType: schema.CodeQualityDim, Status: schema.CompletedStatus, Score: 88},
	}, nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAuditStore").Return(auditStore)

	s := mcp_internal.NewMCPServer(&contract.Config{}, &contract.MockGitClient{}, mgr)
	tool := s.GetTool("get_audit_run")

	res, err := tool.Handler(context.Background(), callRequest("get_audit_run", map[string]any{
		"run_id": 5.0,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := textOf(t, res)
	assert.Contains(t, text, "acme-widgets")
	assert.Contains(t, text, "code_quality")
}

func TestGetAuditRunNotFound(t *testing.T) {
	auditStore := &iocache.MockAuditStore{}
	auditStore.On("GetAuditRun", int64(99)).Return(nil, errors.New("audit run 99 not found"))
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetAuditStore").Return(auditStore)

	s := mcp_internal.NewMCPServer(&contract.Config{}, &contract.MockGitClient{}, mgr)
	tool := s.GetTool("get_audit_run")

	res, err := tool.Handler(context.Background(), callRequest("get_audit_run", map[string]any{
		"run_id": 99.0,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "not found")
}
