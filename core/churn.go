package core

import (
	"context"
	"sort"
	"time"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/githubapi"
	"github.com/revflo/revaudit/schema"
)

// ChurnSource counts commits touching a path within a time window.
type ChurnSource interface {
	CountCommitsForPath(ctx context.Context, path string, since time.Time) (int, error)
}

// LocalChurn estimates churn from local git history.
type LocalChurn struct {
	client   contract.GitClient
	repoPath string
}

var _ ChurnSource = &LocalChurn{} // Compile-time check

// NewLocalChurn creates a churn source backed by a local clone.
func NewLocalChurn(client contract.GitClient, repoPath string) *LocalChurn {
	return &LocalChurn{client: client, repoPath: repoPath}
}

// CountCommitsForPath counts commits via git rev-list.
func (lc *LocalChurn) CountCommitsForPath(ctx context.Context, path string, since time.Time) (int, error) {
	return lc.client.CountCommitsForPath(ctx, lc.repoPath, path, since)
}

// NewChurnSource selects the churn strategy for the config: the GitHub
// commits API when a repo URL is configured, local git otherwise.
func NewChurnSource(cfg *contract.Config, client contract.GitClient) (ChurnSource, error) {
	if cfg.RepoURL != "" {
		return githubapi.NewClient(cfg.RepoURL, cfg.GitHubToken)
	}
	return NewLocalChurn(client, cfg.RepoPath), nil
}

// EstimateChurn fills in commit counts for the largest files. Only the
// topN files by LOC are queried; everything else stays at churn 0, and
// a per-file error degrades that file to 0 rather than failing the run.
func EstimateChurn(ctx context.Context, src ChurnSource, metrics map[string]schema.FileMetrics, topN int, window time.Duration) map[string]int {
	churn := make(map[string]int, len(metrics))

	paths := make([]string, 0, len(metrics))
	for path := range metrics {
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool {
		mi, mj := metrics[paths[i]], metrics[paths[j]]
		if mi.LOC != mj.LOC {
			return mi.LOC > mj.LOC
		}
		return paths[i] < paths[j] // stable order for equal sizes
	})

	if topN < len(paths) {
		paths = paths[:topN]
	}

	since := time.Now().Add(-window)
	for _, path := range paths {
		count, err := src.CountCommitsForPath(ctx, path, since)
		if err != nil {
			contract.LogWarn("Churn estimation failed for "+path, err)
			continue
		}
		churn[path] = count
	}
	return churn
}
