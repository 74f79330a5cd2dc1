package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// PrintRiskReport outputs a legacy risk report, dispatching on the
// configured output format.
func PrintRiskReport(report *schema.RiskReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRiskJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeRiskCSV(csvWriter, report)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRiskTable(w, report, cfg, duration)
		}, "Wrote table")
	}
}

// writeRiskTable renders the human-readable risk report.
func writeRiskTable(w io.Writer, report *schema.RiskReport, cfg *contract.Config, duration time.Duration) error {
	if len(report.Items) == 0 {
		if _, err := fmt.Fprintf(w, "No risks detected. Score: %d/100 (%s)\n",
			report.Score, contract.GetScoreLabel(report.Score)); err != nil {
			return err
		}
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Severity", "Title", "Areas", "Likelihood"})

	pathWidth := getMaxTablePathWidth(cfg)
	var data [][]string
	for i, item := range report.Items {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			severityLabel(item.Severity, cfg),
			item.Title,
			contract.TruncatePath(strings.Join(item.AffectedAreas, ", "), pathWidth),
			item.Likelihood,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\nRecommended actions\n"); err != nil {
		return err
	}
	for i, item := range report.Items {
		if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, item.RecommendedAction); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\nRisk score: %d/100 (%s), %d items\n",
		report.Score, contract.GetScoreLabel(report.Score), len(report.Items)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scan completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeRiskCSV writes one row per risk item.
func writeRiskCSV(w *csv.Writer, report *schema.RiskReport) error {
	header := []string{
		"rank",
		"severity",
		"title",
		"why_it_matters",
		"affected_areas",
		"likelihood",
		"recommended_action",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, item := range report.Items {
		rec := []string{
			strconv.Itoa(i + 1),
			string(item.Severity),
			item.Title,
			item.WhyItMatters,
			strings.Join(item.AffectedAreas, "|"),
			item.Likelihood,
			item.RecommendedAction,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeRiskJSON writes the risk report with rank and label added per item.
func writeRiskJSON(w io.Writer, report *schema.RiskReport) error {
	type JSONRiskItem struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.RiskItem
	}
	type JSONRiskReport struct {
		Score int            `json:"score"`
		Label string         `json:"label"`
		Items []JSONRiskItem `json:"items"`
	}

	out := JSONRiskReport{
		Score: report.Score,
		Label: contract.GetScoreLabel(report.Score),
		Items: make([]JSONRiskItem, len(report.Items)),
	}
	for i, item := range report.Items {
		out.Items[i] = JSONRiskItem{
			Rank:     i + 1,
			Label:    contract.GetPlainLabel(item.Severity),
			RiskItem: item,
		}
	}
	return writeJSON(w, out)
}
