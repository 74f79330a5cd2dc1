// Package iocache is for durable storage of metrics and audit runs.
package iocache

import (
	"sync"

	"github.com/revflo/revaudit/internal/contract"
)

// StoreManagerImpl manages the metric cache and audit store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	metrics      contract.MetricStore
	audits       contract.AuditStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetMetricStore returns the metric cache store.
func (mgr *StoreManagerImpl) GetMetricStore() contract.MetricStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.metrics
}

// GetAuditStore returns the audit store.
func (mgr *StoreManagerImpl) GetAuditStore() contract.AuditStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.audits
}
