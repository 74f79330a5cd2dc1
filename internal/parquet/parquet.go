// Package parquet provides data structures and functions for exporting audit
// run data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/revflo/revaudit/schema"
)

// AuditRun represents a single audit run with metadata.
// This struct maps to the revaudit_runs database table.
type AuditRun struct {
	// RunID is the unique identifier for this audit run
	RunID int64 `parquet:"run_id,snappy"`

	// RepoID identifies the repository that was audited
	RepoID string `parquet:"repo_id,snappy"`

	// CommitSHA is the commit the audit ran against
	CommitSHA string `parquet:"commit_sha,snappy"`

	// Status is the terminal lifecycle state of the run
	Status string `parquet:"status,snappy"`

	// StartedAt is when the audit began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// CompletedAt is when the audit completed (nullable)
	CompletedAt *time.Time `parquet:"completed_at,optional,snappy"`

	// OverallScore is the aggregate health score across dimensions (nullable)
	OverallScore *int32 `parquet:"overall_score,optional,snappy"`

	// TotalIssues is the total finding count across dimensions (nullable)
	TotalIssues *int32 `parquet:"total_issues,optional,snappy"`

	// ErrorMessage holds the failure reason for failed runs (nullable)
	ErrorMessage *string `parquet:"error_message,optional,snappy"`
}

// DimensionScan represents one dimension scanner's result within an audit run.
// This struct maps to the revaudit_dimension_scans database table.
type DimensionScan struct {
	// ScanID is the unique identifier for this dimension scan
	ScanID int64 `parquet:"scan_id,snappy"`

	// AuditRunID references the parent audit run
	AuditRunID int64 `parquet:"audit_run_id,snappy"`

	// RepoID identifies the repository that was audited
	RepoID string `parquet:"repo_id,snappy"`

	// ScanType is the dimension name (e.g. code_quality, security)
	ScanType string `parquet:"scan_type,snappy"`

	// Status is the terminal lifecycle state of the scan
	Status string `parquet:"status,snappy"`

	// Score is the dimension health score (0-100)
	Score int32 `parquet:"score,snappy"`

	// FindingCount is the number of findings raised by the scanner
	FindingCount int32 `parquet:"finding_count,snappy"`

	// FilesAnalyzed is the number of files the scanner inspected
	FilesAnalyzed int32 `parquet:"files_analyzed,snappy"`

	// FilesFromCache is how many files were served from the metric cache
	FilesFromCache int32 `parquet:"files_from_cache,snappy"`

	// StartedAt is when the scan began
	StartedAt time.Time `parquet:"started_at,snappy"`

	// CompletedAt is when the scan completed (nullable)
	CompletedAt *time.Time `parquet:"completed_at,optional,snappy"`

	// DurationMs is the scan duration in milliseconds
	DurationMs int64 `parquet:"duration_ms,snappy"`

	// AISummary is the advisory explanation text, when generated (nullable)
	AISummary *string `parquet:"ai_summary,optional,snappy"`
}

// WriteAuditRunsParquet writes a slice of AuditRun structs to a Parquet file.
func WriteAuditRunsParquet(data []AuditRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the AuditRun struct tags
	writer := parquet.NewGenericWriter[AuditRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteDimensionScansParquet writes a slice of DimensionScan structs to a Parquet file.
func WriteDimensionScansParquet(data []DimensionScan, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the DimensionScan struct tags
	writer := parquet.NewGenericWriter[DimensionScan](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertAuditRunRecords converts schema.AuditRunRecord to AuditRun for Parquet export.
func ConvertAuditRunRecords(records []schema.AuditRunRecord) []AuditRun {
	result := make([]AuditRun, len(records))
	for i, record := range records {
		result[i] = AuditRun{
			RunID:        record.RunID,
			RepoID:       record.RepoID,
			CommitSHA:    record.CommitSHA,
			Status:       record.Status,
			StartedAt:    record.StartedAt,
			CompletedAt:  record.CompletedAt,
			OverallScore: record.OverallScore,
			TotalIssues:  record.TotalIssues,
			ErrorMessage: record.ErrorMessage,
		}
	}
	return result
}

// ConvertDimensionScanRecords converts schema.DimensionScanRecord to DimensionScan for Parquet export.
func ConvertDimensionScanRecords(records []schema.DimensionScanRecord) []DimensionScan {
	result := make([]DimensionScan, len(records))
	for i, record := range records {
		result[i] = DimensionScan{
			ScanID:         record.ScanID,
			AuditRunID:     record.AuditRunID,
			RepoID:         record.RepoID,
			ScanType:       record.ScanType,
			Status:         record.Status,
			Score:          record.Score,
			FindingCount:   record.FindingCount,
			FilesAnalyzed:  record.FilesAnalyzed,
			FilesFromCache: record.FilesFromCache,
			StartedAt:      record.StartedAt,
			CompletedAt:    record.CompletedAt,
			DurationMs:     record.DurationMs,
			AISummary:      record.AISummary,
		}
	}
	return result
}
