package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// PrintAuditReport outputs an audit report, dispatching on the configured
// output format.
func PrintAuditReport(report *schema.AuditReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAuditJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeAuditCSV(csvWriter, report)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAuditTable(w, report, cfg, duration)
		}, "Wrote table")
	}
}

// writeAuditTable renders the human-readable audit report: a dimension
// summary table, a findings table, and any AI insights.
func writeAuditTable(w io.Writer, report *schema.AuditReport, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Audit of %s at %s\n\n", report.Run.RepoID, shortSHA(report.Run.CommitSHA)); err != nil {
		return err
	}

	if err := writeDimensionTable(w, report.Results); err != nil {
		return err
	}

	findings := collectFindings(report.Results)
	if len(findings) > 0 {
		if _, err := fmt.Fprintf(w, "\nFindings (%d)\n", len(findings)); err != nil {
			return err
		}
		if err := writeFindingsTable(w, findings, cfg); err != nil {
			return err
		}
	}

	if err := writeInsights(w, report.Results); err != nil {
		return err
	}

	overall := report.Run.OverallScore
	if _, err := fmt.Fprintf(w, "\nOverall score: %d/100 (%s), %d issues across %d dimensions\n",
		overall, contract.GetScoreLabel(overall), report.Run.TotalIssues, len(report.Results)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Audit completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeDimensionTable renders the per-dimension summary.
func writeDimensionTable(w io.Writer, results []*schema.DimensionScanResult) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Dimension", "Score", "Label", "Issues", "Files", "Cached", "Duration"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range results {
		if r.Status != schema.CompletedStatus {
			data = append(data, []string{
				displayDimension(r.ScanType), "-", "Failed", "-", "-", "-", "-",
			})
			continue
		}
		data = append(data, []string{
			displayDimension(r.ScanType),
			strconv.Itoa(r.Score),
			contract.GetScoreLabel(r.Score),
			strconv.Itoa(len(r.Findings)),
			strconv.Itoa(r.FilesAnalyzed),
			strconv.Itoa(r.FilesFromCache),
			fmt.Sprintf("%dms", r.DurationMs),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeFindingsTable renders every finding ordered by severity within
// its dimension.
func writeFindingsTable(w io.Writer, findings []schema.Finding, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Severity", "Rule", "Path", "Title"})

	pathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for _, f := range findings {
		data = append(data, []string{
			severityLabel(f.Severity, cfg),
			f.RuleID,
			contract.TruncatePath(f.FilePath, pathWidth),
			f.Title,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeInsights prints AI summaries for dimensions that have one.
func writeInsights(w io.Writer, results []*schema.DimensionScanResult) error {
	wrote := false
	for _, r := range results {
		if r.AISummary == "" {
			continue
		}
		if !wrote {
			if _, err := fmt.Fprintf(w, "\nInsights\n"); err != nil {
				return err
			}
			wrote = true
		}
		if _, err := fmt.Fprintf(w, "  %s: %s\n", displayDimension(r.ScanType), r.AISummary); err != nil {
			return err
		}
		if r.Recommendation != "" {
			if _, err := fmt.Fprintf(w, "    Next: %s\n", r.Recommendation); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeAuditCSV writes the report as one row per finding, with the run
// and dimension context flattened in.
func writeAuditCSV(w *csv.Writer, report *schema.AuditReport) error {
	header := []string{
		"repo_id",
		"commit_sha",
		"dimension",
		"dimension_score",
		"rule_id",
		"severity",
		"file_path",
		"title",
		"description",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range report.Results {
		for _, f := range r.Findings {
			rec := []string{
				report.Run.RepoID,
				report.Run.CommitSHA,
				string(r.ScanType),
				strconv.Itoa(r.Score),
				f.RuleID,
				string(f.Severity),
				f.FilePath,
				f.Title,
				f.Description,
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeAuditJSON writes the full report with a label added per dimension.
func writeAuditJSON(w io.Writer, report *schema.AuditReport) error {
	type JSONDimensionResult struct {
		Label string `json:"label"`
		*schema.DimensionScanResult
	}
	type JSONAuditReport struct {
		Run          schema.AuditRun       `json:"run"`
		OverallLabel string                `json:"overall_label"`
		Results      []JSONDimensionResult `json:"results"`
	}

	out := JSONAuditReport{
		Run:          report.Run,
		OverallLabel: contract.GetScoreLabel(report.Run.OverallScore),
		Results:      make([]JSONDimensionResult, len(report.Results)),
	}
	for i, r := range report.Results {
		out.Results[i] = JSONDimensionResult{
			Label:               contract.GetScoreLabel(r.Score),
			DimensionScanResult: r,
		}
	}
	return writeJSON(w, out)
}

// collectFindings flattens findings across dimensions, preserving the
// per-dimension severity ordering.
func collectFindings(results []*schema.DimensionScanResult) []schema.Finding {
	var findings []schema.Finding
	for _, r := range results {
		findings = append(findings, r.Findings...)
	}
	return findings
}

// shortSHA trims a commit hash for display.
func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
