package iocache

import (
	"errors"
	"fmt"

	"github.com/revflo/revaudit/internal/parquet"
)

// ExecuteAuditExport performs the actual export of audit data to Parquet files.
func ExecuteAuditExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the audit store
	store := Manager.GetAuditStore()
	if store == nil {
		return errors.New("audit store is not initialized")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get audit status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no audit data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total audit runs: %d\n", status.TotalRuns)
	fmt.Printf("Total dimension scans: %d\n", status.TableSizes[dimensionScansTable])

	// Retrieve all audit runs
	auditRuns, err := store.GetAllAuditRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve audit runs: %w", err)
	}

	// Retrieve all dimension scans
	dimensionScans, err := store.GetAllDimensionScans()
	if err != nil {
		return fmt.Errorf("failed to retrieve dimension scans: %w", err)
	}

	// Convert to Parquet format
	parquetRuns := parquet.ConvertAuditRunRecords(auditRuns)
	parquetScans := parquet.ConvertDimensionScanRecords(dimensionScans)

	// Write audit runs to Parquet
	runsFile := outputFile + ".audit_runs.parquet"
	if err := parquet.WriteAuditRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write audit runs: %w", err)
	}
	fmt.Printf("Exported %d audit runs to: %s\n", len(parquetRuns), runsFile)

	// Write dimension scans to Parquet
	scansFile := outputFile + ".dimension_scans.parquet"
	if err := parquet.WriteDimensionScansParquet(parquetScans, scansFile); err != nil {
		return fmt.Errorf("failed to write dimension scans: %w", err)
	}
	fmt.Printf("Exported %d dimension scan records to: %s\n", len(parquetScans), scansFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
