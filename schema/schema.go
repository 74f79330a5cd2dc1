// Package schema has configs, models and constants for all parts of revaudit.
package schema

// FileMetrics represents the static and history-derived metrics for a single file.
// These are the raw inputs for both the legacy risk engine and the dimension
// scanners; nothing in here is a judgment, only measurement.
type FileMetrics struct {
	FilePath    string  `json:"file_path"`    // Relative path to the file in the repository
	LOC         int     `json:"loc"`          // Non-blank, non-comment-marker lines
	Complexity  float64 `json:"complexity"`   // Cyclomatic complexity (native for Go, indentation proxy otherwise)
	IndentDepth int     `json:"indent_depth"` // Maximum indentation depth in 4-space units
	Churn90d    int     `json:"churn_90d"`    // Commits touching this file in the last 90 days
	HasTest     bool    `json:"has_test"`     // Whether a matching test file was detected
	Language    string  `json:"language"`     // Detected language identifier (e.g. "go", "python")
}
