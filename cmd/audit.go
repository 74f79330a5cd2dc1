package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/revflo/revaudit/core"
	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/explain"
	"github.com/revflo/revaudit/internal/iocache"
	"github.com/revflo/revaudit/internal/outwriter"
)

// auditCmd runs a full multi-dimension audit.
var auditCmd = &cobra.Command{
	Use:   "audit [repo-path]",
	Short: "Score a repository commit across all health dimensions",
	Long: `Audit a repository commit across six health dimensions: code quality,
maintainability, testing confidence, architecture, performance and security.

Each dimension runs its own scanner over per-file metrics (lines of code,
complexity, indentation depth, churn, test presence) and produces a 0-100
score plus concrete findings. Metrics are cached per commit, so repeated
audits of the same commit are fast.

Pass --base-commit to audit only the files changed since a previous audit.
When the diff cannot be trusted (missing ref, git failure, or more than half
the tree changed), the audit falls back to a full scan.

Examples:
  # Audit the current HEAD
  revaudit audit

  # Audit a specific commit of another repository
  revaudit audit ~/src/billing --commit abc1234

  # Incremental audit since the last audited commit
  revaudit audit --base-commit def5678

  # JSON report with AI explanations for weak dimensions
  revaudit audit --output json --explain yes`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		orch := core.NewOrchestrator(cfg, gitClient, iocache.Manager)
		if cfg.ExplainEnabled {
			orch = orch.WithExplainer(explain.NewExplainer(cfg.AnthropicModel))
		}

		start := time.Now()
		report, err := orch.Execute(rootCtx)
		if err != nil {
			contract.LogFatal("Audit failed", err)
		}

		if err := outwriter.NewOutWriter().WriteAudit(report, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to write audit report", err)
		}
	},
}
