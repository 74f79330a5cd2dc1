package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// RepoContext carries the per-run facts every scanner needs.
type RepoContext struct {
	Cfg       *contract.Config
	RepoID    string
	CommitSHA string
	RunID     int64

	// Files is the sorted list of every code file in scope for this run.
	// Incremental scans keep the full list; they only change where the
	// metrics come from.
	Files []string
}

// MetricSource serves per-file metrics to scanners. Lookups prefer the
// durable cache and fall back to metrics computed earlier in the run.
type MetricSource struct {
	store     contract.MetricStore
	repoID    string
	commitSHA string

	mu       sync.RWMutex
	computed map[string]schema.FileMetrics
}

// NewMetricSource creates a metric source over a cache store plus the
// metrics computed during the pre-pass. store may be nil.
func NewMetricSource(store contract.MetricStore, repoID, commitSHA string, computed map[string]schema.FileMetrics) *MetricSource {
	if computed == nil {
		computed = make(map[string]schema.FileMetrics)
	}
	return &MetricSource{
		store:     store,
		repoID:    repoID,
		commitSHA: commitSHA,
		computed:  computed,
	}
}

// Lookup returns the metrics for a path. fromCache reports whether the
// cache store served the entry.
func (src *MetricSource) Lookup(path string) (metrics schema.FileMetrics, fromCache bool, ok bool) {
	if src.store != nil {
		if m, hit, err := src.store.Get(src.repoID, src.commitSHA, path); err == nil && hit {
			return *m, true, true
		}
	}

	src.mu.RLock()
	defer src.mu.RUnlock()
	m, ok := src.computed[path]
	return m, false, ok
}

// DimensionScanner inspects one health dimension of a repository.
type DimensionScanner interface {
	// Name returns the dimension this scanner covers.
	Name() schema.Dimension

	// Scan evaluates the in-scope files and returns a completed result.
	// An error means the scan itself broke; the orchestrator records it
	// as a failed dimension without aborting the siblings.
	Scan(ctx context.Context, rctx *RepoContext, src *MetricSource) (*schema.DimensionScanResult, error)
}

// ScannerRegistry maps dimensions to scanners.
type ScannerRegistry struct {
	mu       sync.RWMutex
	scanners map[schema.Dimension]DimensionScanner
}

// NewScannerRegistry returns a registry seeded with the six standard
// scanners.
func NewScannerRegistry() *ScannerRegistry {
	reg := &ScannerRegistry{scanners: make(map[schema.Dimension]DimensionScanner)}
	for _, s := range []DimensionScanner{
		&CodeQualityScanner{},
		&MaintainabilityScanner{},
		&TestingConfidenceScanner{},
		&ArchitectureScanner{},
		&PerformanceScanner{},
		&SecurityScanner{},
	} {
		reg.Register(s)
	}
	return reg
}

// Register adds or replaces a scanner for its dimension.
func (reg *ScannerRegistry) Register(s DimensionScanner) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.scanners[s.Name()] = s
}

// Get returns the scanner for a dimension.
func (reg *ScannerRegistry) Get(dim schema.Dimension) (DimensionScanner, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	s, ok := reg.scanners[dim]
	return s, ok
}

// List returns registered scanners in canonical dimension order.
func (reg *ScannerRegistry) List() []DimensionScanner {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]DimensionScanner, 0, len(reg.scanners))
	for _, dim := range schema.AllDimensions {
		if s, ok := reg.scanners[dim]; ok {
			out = append(out, s)
		}
	}
	return out
}

// newFinding builds a finding with the deterministic "{RULE}-{path}" ID.
func newFinding(ruleID string, severity schema.Severity, dim schema.Dimension, path, title, description string, metrics map[string]any) schema.Finding {
	return schema.Finding{
		ID:          fmt.Sprintf("%s-%s", ruleID, path),
		RuleID:      ruleID,
		Severity:    severity,
		Category:    string(dim),
		FilePath:    path,
		Title:       title,
		Description: description,
		Metrics:     metrics,
	}
}
