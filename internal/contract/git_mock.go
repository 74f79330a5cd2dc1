package contract

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// Run implements the GitClient interface.
func (m *MockGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	callArgs := []any{ctx, repoPath}
	for _, a := range args {
		callArgs = append(callArgs, a)
	}
	ret := m.Called(callArgs...)
	out, _ := ret.Get(0).([]byte)
	return out, ret.Error(1)
}

// GetRepoHash implements the GitClient interface.
func (m *MockGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	ret := m.Called(ctx, repoPath)
	return ret.String(0), ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// ListTrackedFiles implements the GitClient interface.
func (m *MockGitClient) ListTrackedFiles(ctx context.Context, repoPath string) ([]string, error) {
	ret := m.Called(ctx, repoPath)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// GetChangedFilesBetweenRefs implements the GitClient interface.
func (m *MockGitClient) GetChangedFilesBetweenRefs(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]string, error) {
	ret := m.Called(ctx, repoPath, baseRef, targetRef)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// CountCommitsForPath implements the GitClient interface.
func (m *MockGitClient) CountCommitsForPath(ctx context.Context, repoPath string, path string, since time.Time) (int, error) {
	ret := m.Called(ctx, repoPath, path, since)
	return ret.Int(0), ret.Error(1)
}
