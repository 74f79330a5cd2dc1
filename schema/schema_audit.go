package schema

import "time"

// Finding represents a single issue raised by a dimension scanner.
// The ID is deterministic: "{RULE}-{file_path}", so repeated scans of the
// same tree produce identical findings.
type Finding struct {
	ID          string         `json:"id"`
	RuleID      string         `json:"rule_id"`
	Severity    Severity       `json:"severity"`
	Category    string         `json:"category"`
	FilePath    string         `json:"file_path"`
	LineNumber  int            `json:"line_number,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CodeSnippet string         `json:"code_snippet,omitempty"`
	Metrics     map[string]any `json:"metrics,omitempty"`
}

// DimensionScanResult is the outcome of one dimension scanner over one commit.
type DimensionScanResult struct {
	ID             int64          `json:"id,omitempty"`
	AuditRunID     int64          `json:"audit_run_id"`
	RepoID         string         `json:"repo_id"`
	ScanType       Dimension      `json:"scan_type"`
	Status         ScanStatus     `json:"status"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	Score          int            `json:"score"`
	Findings       []Finding      `json:"findings"`
	Metrics        map[string]any `json:"metrics,omitempty"`
	AISummary      string         `json:"ai_summary,omitempty"`
	Recommendation string         `json:"recommendation,omitempty"`
	FilesAnalyzed  int            `json:"files_analyzed"`
	FilesFromCache int            `json:"files_from_cache"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    time.Time      `json:"completed_at"`
	DurationMs     int64          `json:"duration_ms"`
}

// AuditRun tracks a full multi-dimension audit over a single commit.
type AuditRun struct {
	ID           int64               `json:"id"`
	RepoID       string              `json:"repo_id"`
	CommitSHA    string              `json:"commit_sha"`
	Status       ScanStatus          `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	StartedAt    time.Time           `json:"started_at"`
	CompletedAt  time.Time           `json:"completed_at"`
	ScanIDs      map[Dimension]int64 `json:"scan_ids,omitempty"`
	OverallScore int                 `json:"overall_score"`
	TotalIssues  int                 `json:"total_issues"`
}

// DimensionExplanation is the bounded, score-neutral AI output for one
// dimension. It never feeds back into scores or findings.
type DimensionExplanation struct {
	Summary           string `json:"summary"`
	TopRecommendation string `json:"top_recommendation"`
}

// AuditReport aggregates everything a run produced for rendering.
type AuditReport struct {
	Run     AuditRun               `json:"run"`
	Results []*DimensionScanResult `json:"results"`
}
