package schema

import "time"

// CacheStatus represents the status of the metric cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// AuditStatus represents the status of the audit store.
type AuditStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalIssues   int              `json:"total_issues"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// AuditRunRecord represents a row from the revaudit_runs table, used for
// status queries and parquet export.
type AuditRunRecord struct {
	RunID        int64
	RepoID       string
	CommitSHA    string
	Status       string
	StartedAt    time.Time
	CompletedAt  *time.Time
	OverallScore *int32
	TotalIssues  *int32
	ErrorMessage *string
}

// DimensionScanRecord represents a row from the revaudit_dimension_scans
// table, used for parquet export.
type DimensionScanRecord struct {
	ScanID         int64
	AuditRunID     int64
	RepoID         string
	ScanType       string
	Status         string
	Score          int32
	FindingCount   int32
	FilesAnalyzed  int32
	FilesFromCache int32
	StartedAt      time.Time
	CompletedAt    *time.Time
	DurationMs     int64
	AISummary      *string
}
