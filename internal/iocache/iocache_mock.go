package iocache

import (
	"time"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a testify mock for the StoreManager interface.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetMetricStore mocks metric store retrieval.
func (m *MockStoreManager) GetMetricStore() contract.MetricStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.MetricStore)
	return store
}

// GetAuditStore mocks audit store retrieval.
func (m *MockStoreManager) GetAuditStore() contract.AuditStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.AuditStore)
	return store
}

// MockMetricStore is a testify mock for the MetricStore interface.
type MockMetricStore struct {
	mock.Mock
}

var _ contract.MetricStore = &MockMetricStore{} // Compile-time check

// Get mocks a cache lookup.
func (m *MockMetricStore) Get(repoID, commitSHA, filePath string) (*schema.FileMetrics, bool, error) {
	ret := m.Called(repoID, commitSHA, filePath)
	metrics, _ := ret.Get(0).(*schema.FileMetrics)
	return metrics, ret.Bool(1), ret.Error(2)
}

// Set mocks a cache write.
func (m *MockMetricStore) Set(repoID, commitSHA string, metrics schema.FileMetrics) error {
	ret := m.Called(repoID, commitSHA, metrics)
	return ret.Error(0)
}

// GetAllForCommit mocks a full-commit lookup.
func (m *MockMetricStore) GetAllForCommit(repoID, commitSHA string) (map[string]schema.FileMetrics, error) {
	ret := m.Called(repoID, commitSHA)
	all, _ := ret.Get(0).(map[string]schema.FileMetrics)
	return all, ret.Error(1)
}

// InvalidateOlderThan mocks bulk invalidation.
func (m *MockMetricStore) InvalidateOlderThan(cutoff time.Time) (int64, error) {
	ret := m.Called(cutoff)
	count, _ := ret.Get(0).(int64)
	return count, ret.Error(1)
}

// GetStatus mocks status retrieval.
func (m *MockMetricStore) GetStatus() (schema.CacheStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.CacheStatus)
	return status, ret.Error(1)
}

// Close mocks connection close.
func (m *MockMetricStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

// MockAuditStore is a testify mock for the AuditStore interface.
type MockAuditStore struct {
	mock.Mock
}

var _ contract.AuditStore = &MockAuditStore{} // Compile-time check

// CreateAuditRun mocks run creation.
func (m *MockAuditStore) CreateAuditRun(repoID, commitSHA string, startedAt time.Time) (int64, error) {
	ret := m.Called(repoID, commitSHA, startedAt)
	id, _ := ret.Get(0).(int64)
	return id, ret.Error(1)
}

// UpdateRunStatus mocks a lifecycle transition.
func (m *MockAuditStore) UpdateRunStatus(runID int64, status schema.ScanStatus, errorMessage string) error {
	ret := m.Called(runID, status, errorMessage)
	return ret.Error(0)
}

// SaveDimensionResult mocks persisting a scanner result.
func (m *MockAuditStore) SaveDimensionResult(result *schema.DimensionScanResult) (int64, error) {
	ret := m.Called(result)
	id, _ := ret.Get(0).(int64)
	return id, ret.Error(1)
}

// LinkDimensionScan mocks linking a scan to its run.
func (m *MockAuditStore) LinkDimensionScan(runID int64, dim schema.Dimension, scanID int64) error {
	ret := m.Called(runID, dim, scanID)
	return ret.Error(0)
}

// CompleteAuditRun mocks run finalization.
func (m *MockAuditStore) CompleteAuditRun(runID int64, completedAt time.Time, overallScore, totalIssues int) error {
	ret := m.Called(runID, completedAt, overallScore, totalIssues)
	return ret.Error(0)
}

// GetAuditRun mocks run retrieval.
func (m *MockAuditStore) GetAuditRun(runID int64) (*schema.AuditRun, error) {
	ret := m.Called(runID)
	run, _ := ret.Get(0).(*schema.AuditRun)
	return run, ret.Error(1)
}

// GetDimensionResults mocks result retrieval.
func (m *MockAuditStore) GetDimensionResults(runID int64) ([]*schema.DimensionScanResult, error) {
	ret := m.Called(runID)
	results, _ := ret.Get(0).([]*schema.DimensionScanResult)
	return results, ret.Error(1)
}

// GetStatus mocks status retrieval.
func (m *MockAuditStore) GetStatus() (schema.AuditStatus, error) {
	ret := m.Called()
	status, _ := ret.Get(0).(schema.AuditStatus)
	return status, ret.Error(1)
}

// GetAllAuditRuns mocks export retrieval of runs.
func (m *MockAuditStore) GetAllAuditRuns() ([]schema.AuditRunRecord, error) {
	ret := m.Called()
	records, _ := ret.Get(0).([]schema.AuditRunRecord)
	return records, ret.Error(1)
}

// GetAllDimensionScans mocks export retrieval of dimension scans.
func (m *MockAuditStore) GetAllDimensionScans() ([]schema.DimensionScanRecord, error) {
	ret := m.Called()
	records, _ := ret.Get(0).([]schema.DimensionScanRecord)
	return records, ret.Error(1)
}

// Close mocks connection close.
func (m *MockAuditStore) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
