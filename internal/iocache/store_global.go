package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetCacheDBFilePath returns the path to the SQLite DB file for metric caching.
func GetCacheDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetAuditDBFilePath returns the path to the SQLite DB file for audit tracking.
func GetAuditDBFilePath() string {
	return contract.GetAuditDBFilePath()
}

// InitStores initializes the global store manager with separate metric and
// audit stores. cacheBackend and auditBackend can be empty to skip
// initialization of that store.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, cacheTTL time.Duration, auditBackend schema.DatabaseBackend, auditConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		// This function body runs exactly once, even with concurrent calls.
		var err error

		// Initialize metric cache store only if backend is configured
		var metricStore contract.MetricStore
		if cacheBackend != "" {
			metricStore, err = NewMetricStore(cacheBackend, cacheConnStr, cacheTTL)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize metric cache: %w", err)
				return
			}
		}

		// Initialize audit store only if backend is configured
		var auditStore contract.AuditStore
		if auditBackend != "" {
			auditStore, err = NewAuditStore(auditBackend, auditConnStr)
			if err != nil {
				if metricStore != nil {
					_ = metricStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize audit store: %w", err)
				return
			}
		}

		// Assign to global manager
		Manager.Lock()
		defer Manager.Unlock()
		Manager.metrics = metricStore
		Manager.audits = auditStore
	})

	// After once.Do, initErr will contain any error from the initialization block.
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.metrics != nil {
			_ = Manager.metrics.Close()
		}
		if Manager.audits != nil {
			_ = Manager.audits.Close()
		}
	})
}

// ClearCache clears the metric cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable("mysql", connStr, metricCacheTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable("pgx", connStr, metricCacheTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearAudit clears the audit data for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the audit tables.
// For NoneBackend, it does nothing.
func ClearAudit(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		tables := []string{auditRunsTable, dimensionScansTable}
		for _, table := range tables {
			if err := clearSQLTable("mysql", connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.PostgreSQLBackend:
		tables := []string{auditRunsTable, dimensionScansTable}
		for _, table := range tables {
			if err := clearSQLTable("pgx", connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported audit backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName, connStr, tableName string) error {
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	if err := validateTableName(tableName); err != nil {
		return err
	}
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
