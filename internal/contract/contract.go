// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/revflo/revaudit/schema"
)

// GitClient defines the necessary operations for repository inspection.
// This allows the core audit logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// --- File State / History ---

	// ListTrackedFiles returns all files currently tracked in the repository.
	ListTrackedFiles(ctx context.Context, repoPath string) ([]string, error)

	// GetChangedFilesBetweenRefs returns files that differ between two commits.
	GetChangedFilesBetweenRefs(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]string, error)

	// CountCommitsForPath returns the number of commits touching a path since
	// the given time.
	CountCommitsForPath(ctx context.Context, repoPath string, path string, since time.Time) (int, error)
}

// StoreManager defines the interface for managing persistence stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetMetricStore() MetricStore
	GetAuditStore() AuditStore
}

// MetricStore defines the interface for the TTL'd per-file metric cache,
// keyed by (repo, commit, path).
type MetricStore interface {
	// Get returns the cached metrics for a file, or ok=false on a miss.
	// An expired entry is deleted on read and reported as a miss.
	Get(repoID, commitSHA, filePath string) (*schema.FileMetrics, bool, error)

	// Set inserts or replaces the metrics for a file.
	Set(repoID, commitSHA string, metrics schema.FileMetrics) error

	// GetAllForCommit returns every cached entry for a commit, keyed by path.
	GetAllForCommit(repoID, commitSHA string) (map[string]schema.FileMetrics, error)

	// InvalidateOlderThan deletes entries stored before the cutoff and
	// returns the number of rows removed.
	InvalidateOlderThan(cutoff time.Time) (int64, error)

	// GetStatus returns status information about the cache store.
	GetStatus() (schema.CacheStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// AuditStore defines the interface for tracking audit runs and dimension
// scan results.
type AuditStore interface {
	// CreateAuditRun creates a new pending run and returns its unique ID.
	CreateAuditRun(repoID, commitSHA string, startedAt time.Time) (int64, error)

	// UpdateRunStatus moves a run between lifecycle states.
	UpdateRunStatus(runID int64, status schema.ScanStatus, errorMessage string) error

	// SaveDimensionResult persists one scanner's result and returns its ID.
	SaveDimensionResult(result *schema.DimensionScanResult) (int64, error)

	// LinkDimensionScan records a dimension scan ID on its parent run.
	LinkDimensionScan(runID int64, dim schema.Dimension, scanID int64) error

	// CompleteAuditRun finalizes a run with its aggregate numbers.
	CompleteAuditRun(runID int64, completedAt time.Time, overallScore, totalIssues int) error

	// GetAuditRun fetches a run by ID.
	GetAuditRun(runID int64) (*schema.AuditRun, error)

	// GetDimensionResults fetches all dimension results for a run.
	GetDimensionResults(runID int64) ([]*schema.DimensionScanResult, error)

	// GetStatus returns status information about the audit store.
	GetStatus() (schema.AuditStatus, error)

	// GetAllAuditRuns retrieves every run, for export.
	GetAllAuditRuns() ([]schema.AuditRunRecord, error)

	// GetAllDimensionScans retrieves every dimension scan, for export.
	GetAllDimensionScans() ([]schema.DimensionScanRecord, error)

	// Close closes the underlying connection.
	Close() error
}

// TextModel defines the interface for the bounded AI explainer. Output is
// advisory only; it never alters scores or findings.
type TextModel interface {
	ExplainDimension(ctx context.Context, result *schema.DimensionScanResult) (*schema.DimensionExplanation, error)
}
