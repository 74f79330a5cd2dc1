// Package outwriter renders audit and risk reports as text tables,
// JSON, or CSV.
package outwriter

import (
	"os"
	"time"

	"golang.org/x/term"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// OutWriter provides a unified interface for all report output.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAudit prints a multi-dimension audit report using the configured
// output format.
func (ow *OutWriter) WriteAudit(report *schema.AuditReport, cfg *contract.Config, duration time.Duration) error {
	return PrintAuditReport(report, cfg, duration)
}

// WriteRisk prints a legacy risk report using the configured output format.
func (ow *OutWriter) WriteRisk(report *schema.RiskReport, cfg *contract.Config, duration time.Duration) error {
	return PrintRiskReport(report, cfg, duration)
}

// getMaxTablePathWidth calculates the maximum width for file paths in
// table output based on terminal width.
func getMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default for narrow terminals and CI
			termWidth = 80
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the fixed columns: severity, rule, title, borders
	baseWidth := 50

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
