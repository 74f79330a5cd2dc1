package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/revflo/revaudit/core"
	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/iocache"
	"github.com/revflo/revaudit/internal/outwriter"
)

// riskCmd runs the legacy single-score risk scan.
var riskCmd = &cobra.Command{
	Use:   "risk [repo-path]",
	Short: "Run the legacy single-score risk scan",
	Long: `Scan a repository with the original rule chain and produce a single
risk score plus a ranked list of risk items.

Rules fire in a fixed order per file (hotspot, deep nesting, large file,
complex module) with only the first match reported, plus an independent
missing-tests rule. Thresholds and severities can be overridden with a
.revaudit.yml file in the audited repository.

This predates the dimension-based audit and is kept for pipelines that
consume its report format. Prefer 'revaudit audit' for new integrations.

Examples:
  # Risk scan of the current repository
  revaudit risk

  # CSV output for spreadsheet triage
  revaudit risk --output csv --output-file risk.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		report, err := core.NewOrchestrator(cfg, gitClient, iocache.Manager).RunRisk(rootCtx)
		if err != nil {
			contract.LogFatal("Risk scan failed", err)
		}

		if err := outwriter.NewOutWriter().WriteRisk(report, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Failed to write risk report", err)
		}
	},
}
