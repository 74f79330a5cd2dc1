package core

import (
	"context"
	"fmt"
	"time"

	"github.com/revflo/revaudit/schema"
)

// Scanner rule thresholds (strict greater-than).
const (
	qualityLOCThreshold        = 300
	qualityComplexityThreshold = 20
	maintComplexityThreshold   = 15
	maintChurnThreshold        = 10
	testingLOCThreshold        = 100
	archIndentThreshold        = 5
	perfComplexityThreshold    = 25
)

// scanPass accumulates state while a scanner walks the in-scope files.
type scanPass struct {
	analyzed  int
	fromCache int
	findings  []schema.Finding
}

// runFileRules walks the in-scope files, applying a per-file rule
// function against the shared pass. Cancellation is honored between
// files.
func runFileRules(ctx context.Context, rctx *RepoContext, src *MetricSource, rule func(pass *scanPass, path string, m schema.FileMetrics)) (*scanPass, error) {
	pass := &scanPass{}
	for _, path := range rctx.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, fromCache, ok := src.Lookup(path)
		if !ok {
			continue
		}
		pass.analyzed++
		if fromCache {
			pass.fromCache++
		}
		rule(pass, path, m)
	}
	return pass, nil
}

// finishResult assembles a completed DimensionScanResult from a pass.
func finishResult(dim schema.Dimension, rctx *RepoContext, started time.Time, pass *scanPass, metrics map[string]any) *schema.DimensionScanResult {
	completed := time.Now()
	findings := pass.findings
	schema.SortFindingsBySeverity(findings)
	return &schema.DimensionScanResult{
		AuditRunID:     rctx.RunID,
		RepoID:         rctx.RepoID,
		ScanType:       dim,
		Status:         schema.CompletedStatus,
		Score:          CalculateScore(findings),
		Findings:       findings,
		Metrics:        metrics,
		FilesAnalyzed:  pass.analyzed,
		FilesFromCache: pass.fromCache,
		StartedAt:      started,
		CompletedAt:    completed,
		DurationMs:     completed.Sub(started).Milliseconds(),
	}
}

// CodeQualityScanner flags oversized and overly complex files.
type CodeQualityScanner struct{}

var _ DimensionScanner = &CodeQualityScanner{} // Compile-time check

func (s *CodeQualityScanner) Name() schema.Dimension { return schema.CodeQualityDim }

func (s *CodeQualityScanner) Scan(ctx context.Context, rctx *RepoContext, src *MetricSource) (*schema.DimensionScanResult, error) {
	started := time.Now()
	dim := s.Name()

	totalLOC := 0
	pass, err := runFileRules(ctx, rctx, src, func(pass *scanPass, path string, m schema.FileMetrics) {
		totalLOC += m.LOC
		if m.LOC > qualityLOCThreshold {
			pass.findings = append(pass.findings, newFinding("QUAL001", schema.MediumSeverity, dim, path,
				"Large file",
				fmt.Sprintf("%s has %d lines of code (threshold %d)", path, m.LOC, qualityLOCThreshold),
				map[string]any{"loc": m.LOC}))
		}
		if m.Complexity > qualityComplexityThreshold {
			pass.findings = append(pass.findings, newFinding("QUAL002", schema.MediumSeverity, dim, path,
				"High complexity",
				fmt.Sprintf("%s has complexity %.1f (threshold %d)", path, m.Complexity, qualityComplexityThreshold),
				map[string]any{"complexity": m.Complexity}))
		}
	})
	if err != nil {
		return nil, err
	}

	metrics := map[string]any{"total_loc": totalLOC}
	return finishResult(dim, rctx, started, pass, metrics), nil
}

// MaintainabilityScanner flags files that are both complex and
// frequently changed.
type MaintainabilityScanner struct{}

var _ DimensionScanner = &MaintainabilityScanner{} // Compile-time check

func (s *MaintainabilityScanner) Name() schema.Dimension { return schema.MaintainabilityDim }

func (s *MaintainabilityScanner) Scan(ctx context.Context, rctx *RepoContext, src *MetricSource) (*schema.DimensionScanResult, error) {
	started := time.Now()
	dim := s.Name()

	hotspots := 0
	pass, err := runFileRules(ctx, rctx, src, func(pass *scanPass, path string, m schema.FileMetrics) {
		if m.Complexity > maintComplexityThreshold && m.Churn90d > maintChurnThreshold {
			hotspots++
			pass.findings = append(pass.findings, newFinding("MAINT001", schema.HighSeverity, dim, path,
				"Change hotspot",
				fmt.Sprintf("%s is complex (%.1f) and changed %d times in 90 days", path, m.Complexity, m.Churn90d),
				map[string]any{"complexity": m.Complexity, "churn_90d": m.Churn90d}))
		}
	})
	if err != nil {
		return nil, err
	}

	metrics := map[string]any{"hotspot_count": hotspots}
	return finishResult(dim, rctx, started, pass, metrics), nil
}

// TestingConfidenceScanner flags sizable files with no matching tests.
type TestingConfidenceScanner struct{}

var _ DimensionScanner = &TestingConfidenceScanner{} // Compile-time check

func (s *TestingConfidenceScanner) Name() schema.Dimension { return schema.TestingConfidenceDim }

func (s *TestingConfidenceScanner) Scan(ctx context.Context, rctx *RepoContext, src *MetricSource) (*schema.DimensionScanResult, error) {
	started := time.Now()
	dim := s.Name()

	withTests := 0
	pass, err := runFileRules(ctx, rctx, src, func(pass *scanPass, path string, m schema.FileMetrics) {
		if m.HasTest {
			withTests++
		}
		if m.LOC > testingLOCThreshold && !m.HasTest {
			pass.findings = append(pass.findings, newFinding("TEST001", schema.MediumSeverity, dim, path,
				"No tests",
				fmt.Sprintf("%s has %d lines of code and no matching test file", path, m.LOC),
				map[string]any{"loc": m.LOC, "has_test": false}))
		}
	})
	if err != nil {
		return nil, err
	}

	coverage := 0.0
	if pass.analyzed > 0 {
		coverage = float64(withTests) / float64(pass.analyzed)
	}
	metrics := map[string]any{"coverage_pct": coverage, "files_with_tests": withTests}
	return finishResult(dim, rctx, started, pass, metrics), nil
}

// ArchitectureScanner flags deeply nested control flow.
type ArchitectureScanner struct{}

var _ DimensionScanner = &ArchitectureScanner{} // Compile-time check

func (s *ArchitectureScanner) Name() schema.Dimension { return schema.ArchitectureDim }

func (s *ArchitectureScanner) Scan(ctx context.Context, rctx *RepoContext, src *MetricSource) (*schema.DimensionScanResult, error) {
	started := time.Now()
	dim := s.Name()

	maxDepth := 0
	pass, err := runFileRules(ctx, rctx, src, func(pass *scanPass, path string, m schema.FileMetrics) {
		if m.IndentDepth > maxDepth {
			maxDepth = m.IndentDepth
		}
		if m.IndentDepth > archIndentThreshold {
			pass.findings = append(pass.findings, newFinding("ARCH001", schema.MediumSeverity, dim, path,
				"Deep nesting",
				fmt.Sprintf("%s reaches indent depth %d (threshold %d)", path, m.IndentDepth, archIndentThreshold),
				map[string]any{"indent_depth": m.IndentDepth}))
		}
	})
	if err != nil {
		return nil, err
	}

	metrics := map[string]any{"max_indent_depth": maxDepth}
	return finishResult(dim, rctx, started, pass, metrics), nil
}

// PerformanceScanner flags files whose complexity suggests costly code
// paths.
type PerformanceScanner struct{}

var _ DimensionScanner = &PerformanceScanner{} // Compile-time check

func (s *PerformanceScanner) Name() schema.Dimension { return schema.PerformanceDim }

func (s *PerformanceScanner) Scan(ctx context.Context, rctx *RepoContext, src *MetricSource) (*schema.DimensionScanResult, error) {
	started := time.Now()
	dim := s.Name()

	pass, err := runFileRules(ctx, rctx, src, func(pass *scanPass, path string, m schema.FileMetrics) {
		if m.Complexity > perfComplexityThreshold {
			pass.findings = append(pass.findings, newFinding("PERF001", schema.MediumSeverity, dim, path,
				"Performance Risk",
				fmt.Sprintf("%s has complexity %.1f (threshold %d); hot paths here are hard to reason about", path, m.Complexity, perfComplexityThreshold),
				map[string]any{"complexity": m.Complexity}))
		}
	})
	if err != nil {
		return nil, err
	}

	return finishResult(dim, rctx, started, pass, nil), nil
}

// SecurityScanner has no static rules yet; it reports a clean dimension
// so the report shape stays stable across all six dimensions.
type SecurityScanner struct{}

var _ DimensionScanner = &SecurityScanner{} // Compile-time check

func (s *SecurityScanner) Name() schema.Dimension { return schema.SecurityDim }

func (s *SecurityScanner) Scan(ctx context.Context, rctx *RepoContext, src *MetricSource) (*schema.DimensionScanResult, error) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pass := &scanPass{analyzed: len(rctx.Files)}
	return finishResult(s.Name(), rctx, started, pass, nil), nil
}
