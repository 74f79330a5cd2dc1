package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/revflo/revaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleAuditRuns returns audit run rows covering populated and nil
// nullable fields.
func sampleAuditRuns() []AuditRun {
	now := time.Now()
	completed := now.Add(-30 * time.Minute)
	score := int32(72)
	issues := int32(14)
	errMsg := "git executable not found"

	return []AuditRun{
		{
			RunID:        1,
			RepoID:       "a1b2c3d4e5f60718",
			CommitSHA:    "deadbeef",
			Status:       "completed",
			StartedAt:    now.Add(-1 * time.Hour),
			CompletedAt:  &completed,
			OverallScore: &score,
			TotalIssues:  &issues,
		},
		{
			RunID:     2,
			RepoID:    "a1b2c3d4e5f60718",
			CommitSHA: "cafef00d",
			Status:    "running",
			StartedAt: now.Add(-5 * time.Minute),
			// Nullable fields stay nil while the run is in flight
		},
		{
			RunID:        3,
			RepoID:       "ffeeddccbbaa0099",
			CommitSHA:    "0badc0de",
			Status:       "failed",
			StartedAt:    now.Add(-24 * time.Hour),
			ErrorMessage: &errMsg,
		},
	}
}

func TestAuditRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(AuditRun))
	require.NotNil(t, sch)

	// Check that all expected columns exist
	expectedColumns := []string{
		"run_id",
		"repo_id",
		"commit_sha",
		"status",
		"started_at",
		"completed_at",
		"overall_score",
		"total_issues",
		"error_message",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestDimensionScanStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	sch := parquet.SchemaOf(new(DimensionScan))
	require.NotNil(t, sch)

	// Check that all expected columns exist
	expectedColumns := []string{
		"scan_id",
		"audit_run_id",
		"repo_id",
		"scan_type",
		"status",
		"score",
		"finding_count",
		"files_analyzed",
		"files_from_cache",
		"started_at",
		"completed_at",
		"duration_ms",
		"ai_summary",
	}

	for _, colName := range expectedColumns {
		col, ok := sch.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteAuditRunsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "audit_runs.parquet")

	data := sampleAuditRuns()

	err := WriteAuditRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[AuditRun](file)
	defer reader.Close()

	readData := make([]AuditRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].RepoID, readData[i].RepoID, "RepoID should match")
		assert.Equal(t, data[i].Status, readData[i].Status, "Status should match")
		assert.WithinDuration(t, data[i].StartedAt, readData[i].StartedAt, time.Nanosecond, "StartedAt should match within nanosecond precision")

		// Check nullable fields
		if data[i].CompletedAt == nil {
			assert.Nil(t, readData[i].CompletedAt, "CompletedAt should be nil")
		} else {
			require.NotNil(t, readData[i].CompletedAt, "CompletedAt should not be nil")
			assert.WithinDuration(t, *data[i].CompletedAt, *readData[i].CompletedAt, time.Nanosecond, "CompletedAt should match within nanosecond precision")
		}

		if data[i].OverallScore == nil {
			assert.Nil(t, readData[i].OverallScore, "OverallScore should be nil")
		} else {
			require.NotNil(t, readData[i].OverallScore, "OverallScore should not be nil")
			assert.Equal(t, *data[i].OverallScore, *readData[i].OverallScore, "OverallScore should match")
		}

		if data[i].ErrorMessage == nil {
			assert.Nil(t, readData[i].ErrorMessage, "ErrorMessage should be nil")
		} else {
			require.NotNil(t, readData[i].ErrorMessage, "ErrorMessage should not be nil")
			assert.Equal(t, *data[i].ErrorMessage, *readData[i].ErrorMessage, "ErrorMessage should match")
		}
	}
}

func TestWriteDimensionScansParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "dimension_scans.parquet")

	now := time.Now()
	completed := now.Add(2 * time.Second)
	summary := "Two files exceed the size threshold."

	data := []DimensionScan{
		{
			ScanID:         1,
			AuditRunID:     1,
			RepoID:         "a1b2c3d4e5f60718",
			ScanType:       "code_quality",
			Status:         "completed",
			Score:          75,
			FindingCount:   2,
			FilesAnalyzed:  40,
			FilesFromCache: 12,
			StartedAt:      now,
			CompletedAt:    &completed,
			DurationMs:     2000,
			AISummary:      &summary,
		},
		{
			ScanID:        2,
			AuditRunID:    1,
			RepoID:        "a1b2c3d4e5f60718",
			ScanType:      "security",
			Status:        "completed",
			Score:         100,
			FilesAnalyzed: 40,
			StartedAt:     now,
			DurationMs:    15,
			// No findings means no AI summary
		},
	}

	err := WriteDimensionScansParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[DimensionScan](file)
	defer reader.Close()

	readData := make([]DimensionScan, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].ScanID, readData[i].ScanID, "ScanID should match")
		assert.Equal(t, data[i].ScanType, readData[i].ScanType, "ScanType should match")
		assert.Equal(t, data[i].Score, readData[i].Score, "Score should match")
		assert.Equal(t, data[i].FindingCount, readData[i].FindingCount, "FindingCount should match")
		assert.Equal(t, data[i].FilesFromCache, readData[i].FilesFromCache, "FilesFromCache should match")
		assert.Equal(t, data[i].DurationMs, readData[i].DurationMs, "DurationMs should match")

		if data[i].AISummary == nil {
			assert.Nil(t, readData[i].AISummary, "AISummary should be nil")
		} else {
			require.NotNil(t, readData[i].AISummary, "AISummary should not be nil")
			assert.Equal(t, *data[i].AISummary, *readData[i].AISummary, "AISummary should match")
		}
	}
}

func TestWriteAuditRunsParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_audit_runs.parquet")

	err := WriteAuditRunsParquet([]AuditRun{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteAuditRunsParquet_InvalidPath(t *testing.T) {
	data := sampleAuditRuns()
	err := WriteAuditRunsParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertAuditRunRecords(t *testing.T) {
	now := time.Now()
	score := int32(88)
	records := []schema.AuditRunRecord{
		{
			RunID:        7,
			RepoID:       "abc",
			CommitSHA:    "def",
			Status:       "completed",
			StartedAt:    now,
			OverallScore: &score,
		},
	}

	converted := ConvertAuditRunRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(7), converted[0].RunID)
	assert.Equal(t, "abc", converted[0].RepoID)
	require.NotNil(t, converted[0].OverallScore)
	assert.Equal(t, int32(88), *converted[0].OverallScore)
	assert.Nil(t, converted[0].CompletedAt)
}

func TestConvertDimensionScanRecords(t *testing.T) {
	now := time.Now()
	records := []schema.DimensionScanRecord{
		{
			ScanID:        3,
			AuditRunID:    7,
			RepoID:        "abc",
			ScanType:      "architecture",
			Status:        "completed",
			Score:         90,
			FindingCount:  1,
			FilesAnalyzed: 12,
			StartedAt:     now,
			DurationMs:    120,
		},
	}

	converted := ConvertDimensionScanRecords(records)
	require.Len(t, converted, 1)
	assert.Equal(t, int64(3), converted[0].ScanID)
	assert.Equal(t, "architecture", converted[0].ScanType)
	assert.Equal(t, int32(90), converted[0].Score)
	assert.Nil(t, converted[0].AISummary)
}
