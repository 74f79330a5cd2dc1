package cmd

import (
	"github.com/spf13/cobra"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/iocache"
)

// exportCmd exports stored audit data to Parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored audit runs to Parquet for BI tools and analytics",
	Long: `Export all stored audit data to Parquet format for use with analytics tools.

Exports two datasets:
- Audit runs - metadata and overall scores for each run
- Dimension scans - per-dimension scores, findings and scan metrics

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools (Tableau, Metabase, etc.)

Requires: --output-file parameter

Examples:
  # Export all data
  revaudit export --output-file audit-data.parquet

  # Use with DuckDB for analysis
  revaudit export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet/runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteAuditExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export audit data", err)
		}
	},
}
