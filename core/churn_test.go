package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/githubapi"
	"github.com/revflo/revaudit/schema"
)

// fakeChurnSource returns canned counts per path and records queries.
type fakeChurnSource struct {
	counts  map[string]int
	errs    map[string]error
	queried []string
}

func (f *fakeChurnSource) CountCommitsForPath(ctx context.Context, path string, since time.Time) (int, error) {
	f.queried = append(f.queried, path)
	if err := f.errs[path]; err != nil {
		return 0, err
	}
	return f.counts[path], nil
}

func metricsWithLOC(locs map[string]int) map[string]schema.FileMetrics {
	out := make(map[string]schema.FileMetrics, len(locs))
	for path, loc := range locs {
		out[path] = schema.FileMetrics{FilePath: path, LOC: loc}
	}
	return out
}

func TestEstimateChurnQueriesLargestFiles(t *testing.T) {
	metrics := metricsWithLOC(map[string]int{
		"big.py":    500,
		"medium.py": 200,
		"small.py":  50,
	})
	src := &fakeChurnSource{counts: map[string]int{"big.py": 12, "medium.py": 3}}

	churn := EstimateChurn(context.Background(), src, metrics, 2, 90*24*time.Hour)

	assert.Equal(t, []string{"big.py", "medium.py"}, src.queried, "only the top 2 by LOC")
	assert.Equal(t, 12, churn["big.py"])
	assert.Equal(t, 3, churn["medium.py"])
	_, ok := churn["small.py"]
	assert.False(t, ok, "files outside the top N stay at churn 0")
}

func TestEstimateChurnTieBreaksByPath(t *testing.T) {
	metrics := metricsWithLOC(map[string]int{
		"b.py": 100,
		"a.py": 100,
		"c.py": 100,
	})
	src := &fakeChurnSource{counts: map[string]int{}}

	EstimateChurn(context.Background(), src, metrics, 3, time.Hour)

	assert.Equal(t, []string{"a.py", "b.py", "c.py"}, src.queried)
}

func TestEstimateChurnDegradesOnPerFileError(t *testing.T) {
	metrics := metricsWithLOC(map[string]int{"ok.py": 200, "bad.py": 300})
	src := &fakeChurnSource{
		counts: map[string]int{"ok.py": 7},
		errs:   map[string]error{"bad.py": errors.New("rev-list failed")},
	}

	churn := EstimateChurn(context.Background(), src, metrics, 10, time.Hour)

	assert.Equal(t, 7, churn["ok.py"])
	_, ok := churn["bad.py"]
	assert.False(t, ok, "a failed file degrades to churn 0, not a run failure")
}

func TestEstimateChurnTopNLargerThanSet(t *testing.T) {
	metrics := metricsWithLOC(map[string]int{"only.py": 10})
	src := &fakeChurnSource{counts: map[string]int{"only.py": 2}}

	churn := EstimateChurn(context.Background(), src, metrics, 20, time.Hour)

	assert.Equal(t, map[string]int{"only.py": 2}, churn)
}

func TestLocalChurnDelegatesToGit(t *testing.T) {
	client := &contract.MockGitClient{}
	since := time.Now().Add(-time.Hour)
	client.On("CountCommitsForPath", mock.Anything, "/repo", "app.py", since).Return(9, nil)

	lc := NewLocalChurn(client, "/repo")
	count, err := lc.CountCommitsForPath(context.Background(), "app.py", since)

	require.NoError(t, err)
	assert.Equal(t, 9, count)
	client.AssertExpectations(t)
}

func TestNewChurnSourceSelection(t *testing.T) {
	client := &contract.MockGitClient{}

	local, err := NewChurnSource(&contract.Config{RepoPath: "/repo"}, client)
	require.NoError(t, err)
	assert.IsType(t, &LocalChurn{}, local)

	remote, err := NewChurnSource(&contract.Config{RepoURL: "https://github.com/acme/widgets"}, client)
	require.NoError(t, err)
	assert.IsType(t, &githubapi.Client{}, remote)

	_, err = NewChurnSource(&contract.Config{RepoURL: "https://gitlab.com/acme/widgets"}, client)
	assert.Error(t, err, "non-GitHub hosts are not supported remotely")
}
