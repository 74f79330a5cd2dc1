package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// Orchestrator drives a full multi-dimension audit: metric pre-pass,
// scan-scope decision, concurrent dimension scans, persistence, and the
// optional AI explanation pass.
type Orchestrator struct {
	cfg       *contract.Config
	client    contract.GitClient
	mgr       contract.StoreManager
	registry  *ScannerRegistry
	explainer contract.TextModel // nil disables explanations
}

// NewOrchestrator creates an orchestrator with the standard scanner set.
func NewOrchestrator(cfg *contract.Config, client contract.GitClient, mgr contract.StoreManager) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		client:   client,
		mgr:      mgr,
		registry: NewScannerRegistry(),
	}
}

// WithExplainer enables the AI explanation pass.
func (o *Orchestrator) WithExplainer(explainer contract.TextModel) *Orchestrator {
	o.explainer = explainer
	return o
}

// Registry exposes the scanner registry, mainly for tests and the MCP
// server.
func (o *Orchestrator) Registry() *ScannerRegistry {
	return o.registry
}

// Execute runs the full audit and returns the assembled report.
// Individual scanner failures become failed dimension results; only
// orchestrator-level failures (no files, broken git, broken run
// tracking) fail the run.
func (o *Orchestrator) Execute(ctx context.Context) (*schema.AuditReport, error) {
	auditStore := o.mgr.GetAuditStore()

	startedAt := time.Now()
	runID, err := auditStore.CreateAuditRun(o.cfg.RepoID, o.cfg.CommitSHA, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit run: %w", err)
	}
	if err := auditStore.UpdateRunStatus(runID, schema.RunningStatus, ""); err != nil {
		return nil, fmt.Errorf("failed to mark audit run as running: %w", err)
	}

	report, err := o.execute(ctx, runID)
	if err != nil {
		if updateErr := auditStore.UpdateRunStatus(runID, schema.FailedStatus, err.Error()); updateErr != nil {
			contract.LogWarn("Failed to mark audit run as failed", updateErr)
		}
		return nil, err
	}

	completedAt := time.Now()
	overall := OverallScore(report.Results)
	total := TotalIssues(report.Results)
	if err := auditStore.CompleteAuditRun(runID, completedAt, overall, total); err != nil {
		finalizeErr := fmt.Errorf("failed to finalize audit run: %w", err)
		if updateErr := auditStore.UpdateRunStatus(runID, schema.FailedStatus, finalizeErr.Error()); updateErr != nil {
			contract.LogWarn("Failed to mark audit run as failed", updateErr)
		}
		return nil, finalizeErr
	}

	report.Run = schema.AuditRun{
		ID:           runID,
		RepoID:       o.cfg.RepoID,
		CommitSHA:    o.cfg.CommitSHA,
		Status:       schema.CompletedStatus,
		StartedAt:    startedAt,
		CompletedAt:  completedAt,
		ScanIDs:      report.Run.ScanIDs,
		OverallScore: overall,
		TotalIssues:  total,
	}
	return report, nil
}

// execute performs the audit body once run tracking is in place.
func (o *Orchestrator) execute(ctx context.Context, runID int64) (*schema.AuditReport, error) {
	// --- 1. Metric pre-pass ---
	codeFiles, testFiles, err := o.collectFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(codeFiles) == 0 {
		return nil, fmt.Errorf("no code files found in %s", o.cfg.RepoPath)
	}

	// --- 2. Incremental-scan decision ---
	// Scanners always cover the full code-file set; the changed set only
	// decides which files may reuse base-commit metrics.
	fullScan, changed := ShouldFullScan(ctx, o.client, o.cfg.RepoPath, o.cfg.BaseCommit, o.cfg.CommitSHA)

	metrics, err := o.prepareMetrics(ctx, codeFiles, testFiles, fullScan, changed)
	if err != nil {
		return nil, err
	}

	rctx := &RepoContext{
		Cfg:       o.cfg,
		RepoID:    o.cfg.RepoID,
		CommitSHA: o.cfg.CommitSHA,
		RunID:     runID,
		Files:     codeFiles,
	}
	src := NewMetricSource(o.mgr.GetMetricStore(), o.cfg.RepoID, o.cfg.CommitSHA, metrics)

	// --- 3. Concurrent dimension scans ---
	results := o.runScanners(ctx, rctx, src)

	// --- 4. AI explanation pass (advisory, never score-bearing) ---
	o.explainResults(ctx, results)

	// --- 5. Persist dimension results ---
	scanIDs, err := o.persistResults(runID, results)
	if err != nil {
		return nil, err
	}

	return &schema.AuditReport{
		Run:     schema.AuditRun{ScanIDs: scanIDs},
		Results: results,
	}, nil
}

// runScanners fans the registered scanners out on an errgroup. A
// scanner error never aborts its siblings; it becomes a failed result.
func (o *Orchestrator) runScanners(ctx context.Context, rctx *RepoContext, src *MetricSource) []*schema.DimensionScanResult {
	scanners := o.registry.List()
	results := make([]*schema.DimensionScanResult, len(scanners))

	g, gctx := errgroup.WithContext(ctx)
	for i, scanner := range scanners {
		g.Go(func() error {
			started := time.Now()
			result, err := scanner.Scan(gctx, rctx, src)
			if err != nil {
				result = failedResult(scanner.Name(), rctx, started, err)
			}
			results[i] = result
			return nil // errors are recorded, not propagated
		})
	}
	_ = g.Wait()

	return results
}

// failedResult records a scanner failure as a zero-score result.
func failedResult(dim schema.Dimension, rctx *RepoContext, started time.Time, err error) *schema.DimensionScanResult {
	completed := time.Now()
	return &schema.DimensionScanResult{
		AuditRunID:   rctx.RunID,
		RepoID:       rctx.RepoID,
		ScanType:     dim,
		Status:       schema.FailedStatus,
		ErrorMessage: err.Error(),
		Score:        0,
		StartedAt:    started,
		CompletedAt:  completed,
		DurationMs:   completed.Sub(started).Milliseconds(),
	}
}

// explainResults attaches AI summaries to results that warrant one.
// Failures leave the result untouched; the audit always continues.
func (o *Orchestrator) explainResults(ctx context.Context, results []*schema.DimensionScanResult) {
	if o.explainer == nil {
		return
	}
	for _, result := range results {
		if result.Status != schema.CompletedStatus {
			continue
		}
		if !ShouldRunAI(result.Findings, result.Score) {
			continue
		}
		explanation, err := o.explainer.ExplainDimension(ctx, result)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("Explanation for %s unavailable", result.ScanType), err)
			continue
		}
		result.AISummary = explanation.Summary
		result.Recommendation = explanation.TopRecommendation
	}
}

// persistResults saves each dimension result and links it on the run.
// A persistence failure fails the audit; scan results without a durable
// record would silently vanish from the run history.
func (o *Orchestrator) persistResults(runID int64, results []*schema.DimensionScanResult) (map[schema.Dimension]int64, error) {
	auditStore := o.mgr.GetAuditStore()
	scanIDs := make(map[schema.Dimension]int64)

	for _, result := range results {
		scanID, err := auditStore.SaveDimensionResult(result)
		if err != nil {
			return nil, fmt.Errorf("failed to persist %s scan: %w", result.ScanType, err)
		}
		if scanID == 0 {
			continue // tracking disabled
		}
		scanIDs[result.ScanType] = scanID
		if err := auditStore.LinkDimensionScan(runID, result.ScanType, scanID); err != nil {
			return nil, fmt.Errorf("failed to link %s scan: %w", result.ScanType, err)
		}
	}
	return scanIDs, nil
}

// collectFiles lists tracked files and splits them into code files to
// analyze and test files used for coverage detection. Excluded and
// non-code paths are dropped.
func (o *Orchestrator) collectFiles(ctx context.Context) (codeFiles, testFiles []string, err error) {
	tracked, err := o.client.ListTrackedFiles(ctx, o.cfg.RepoPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list tracked files: %w", err)
	}

	for _, path := range tracked {
		if contract.ShouldIgnore(path, o.cfg.Excludes) {
			continue
		}
		if !IsCodeFile(path) {
			continue
		}
		if IsTestFile(path) {
			testFiles = append(testFiles, path)
			continue
		}
		codeFiles = append(codeFiles, path)
	}
	sort.Strings(codeFiles)
	return codeFiles, testFiles, nil
}

// prepareMetrics computes (or fetches) metrics for every code file and
// writes fresh entries back to the cache. Cached entries are reused
// as-is, including their churn and coverage flags. On an incremental
// scan, files outside the changed set additionally reuse the metrics
// cached under the base commit.
func (o *Orchestrator) prepareMetrics(ctx context.Context, codeFiles, testFiles []string, fullScan bool, changed map[string]struct{}) (map[string]schema.FileMetrics, error) {
	store := o.mgr.GetMetricStore()

	cached, err := store.GetAllForCommit(o.cfg.RepoID, o.cfg.CommitSHA)
	if err != nil {
		contract.LogWarn("Metric cache read failed; recomputing all files", err)
		cached = map[string]schema.FileMetrics{}
	}

	if !fullScan {
		baseline, err := store.GetAllForCommit(o.cfg.RepoID, o.cfg.BaseCommit)
		if err != nil {
			contract.LogWarn("Base commit metrics unavailable; recomputing unchanged files", err)
		} else {
			for _, path := range codeFiles {
				if _, ok := cached[path]; ok {
					continue
				}
				if _, ok := changed[path]; ok {
					continue
				}
				m, ok := baseline[path]
				if !ok {
					continue
				}
				cached[path] = m
				if err := store.Set(o.cfg.RepoID, o.cfg.CommitSHA, m); err != nil {
					contract.LogWarn("Metric cache write failed for "+path, err)
				}
			}
		}
	}

	// Analyze cache misses on a worker pool
	missCh := make(chan string, len(codeFiles))
	resultCh := make(chan schema.FileMetrics, len(codeFiles))
	var wg sync.WaitGroup

	for range o.cfg.Workers {
		wg.Go(func() {
			for path := range missCh {
				if m := AnalyzeFile(o.cfg.RepoPath, path); m != nil {
					resultCh <- *m
				}
			}
		})
	}

	misses := 0
	for _, path := range codeFiles {
		if _, ok := cached[path]; ok {
			continue
		}
		missCh <- path
		misses++
	}
	close(missCh)
	wg.Wait()
	close(resultCh)

	computed := make(map[string]schema.FileMetrics, misses)
	for m := range resultCh {
		computed[m.FilePath] = m
	}

	// Churn and coverage only apply to freshly computed entries
	if len(computed) > 0 {
		src, err := NewChurnSource(o.cfg, o.client)
		if err != nil {
			contract.LogWarn("Churn source unavailable; churn defaults to 0", err)
		} else {
			churn := EstimateChurn(ctx, src, computed, o.cfg.ChurnTopN, o.cfg.ChurnWindow)
			for path, count := range churn {
				m := computed[path]
				m.Churn90d = count
				computed[path] = m
			}
		}

		for path, m := range computed {
			m.HasTest = HasTest(path, testFiles)
			computed[path] = m

			if err := store.Set(o.cfg.RepoID, o.cfg.CommitSHA, m); err != nil {
				contract.LogWarn("Metric cache write failed for "+path, err)
			}
		}
	}

	// Merge cached entries over the computed map for the full picture
	metrics := make(map[string]schema.FileMetrics, len(codeFiles))
	for path, m := range computed {
		metrics[path] = m
	}
	for path, m := range cached {
		metrics[path] = m
	}
	return metrics, nil
}

// RunRisk performs the legacy single-score risk scan over the full
// tree, reusing the metric pre-pass.
func (o *Orchestrator) RunRisk(ctx context.Context) (*schema.RiskReport, error) {
	codeFiles, testFiles, err := o.collectFiles(ctx)
	if err != nil {
		return nil, err
	}
	if len(codeFiles) == 0 {
		return nil, fmt.Errorf("no code files found in %s", o.cfg.RepoPath)
	}

	metrics, err := o.prepareMetrics(ctx, codeFiles, testFiles, true, nil)
	if err != nil {
		return nil, err
	}

	report := EvaluateRisk(metrics, o.cfg.Rules)
	return &report, nil
}
