package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// metricCacheTable is the name of the table for per-file metric caching.
const metricCacheTable = "revaudit_metric_cache"

// MetricStoreImpl handles durable metric caching using various database
// backends. Entries are keyed by (repo_id, commit_sha, file_path) and carry
// a stored_at timestamp checked against the TTL on every read.
type MetricStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
	ttl        time.Duration
	now        func() time.Time // injectable for TTL tests
}

var _ contract.MetricStore = &MetricStoreImpl{} // Compile-time check

// NewMetricStore initializes and returns a new MetricStore based on the backend type.
func NewMetricStore(backend schema.DatabaseBackend, connStr string, ttl time.Duration) (*MetricStoreImpl, error) {
	if err := validateTableName(metricCacheTable); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}

	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetCacheDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite cache at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL cache: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL cache: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		// Return a no-op store for disabled caching
		return &MetricStoreImpl{
			db:      nil,
			backend: backend,
			ttl:     ttl,
			now:     time.Now,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	// Ping to verify connection (skip for NoneBackend)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	// Create the table schema
	query := getCreateMetricCacheQuery(backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", metricCacheTable, err)
	}

	return &MetricStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// getCreateMetricCacheQuery returns the CREATE TABLE query for the given backend.
func getCreateMetricCacheQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(metricCacheTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repo_id VARCHAR(64) NOT NULL,
				commit_sha VARCHAR(64) NOT NULL,
				file_path VARCHAR(512) NOT NULL,
				metrics BLOB NOT NULL,
				stored_at BIGINT NOT NULL,
				PRIMARY KEY (repo_id, commit_sha, file_path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repo_id TEXT NOT NULL,
				commit_sha TEXT NOT NULL,
				file_path TEXT NOT NULL,
				metrics BYTEA NOT NULL,
				stored_at BIGINT NOT NULL,
				PRIMARY KEY (repo_id, commit_sha, file_path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				repo_id TEXT NOT NULL,
				commit_sha TEXT NOT NULL,
				file_path TEXT NOT NULL,
				metrics BLOB NOT NULL,
				stored_at INTEGER NOT NULL,
				PRIMARY KEY (repo_id, commit_sha, file_path)
			);
		`, quotedTableName)
	}
}

// placeholders returns n parameter placeholders for the backend, comma-joined.
func (ms *MetricStoreImpl) placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		if ms.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// expired reports whether an entry stored at the given unix time is past the TTL.
func (ms *MetricStoreImpl) expired(storedAt int64) bool {
	return ms.now().Sub(time.Unix(storedAt, 0)) > ms.ttl
}

// Get retrieves the cached metrics for a file. An expired entry is deleted
// lazily and reported as a miss.
func (ms *MetricStoreImpl) Get(repoID, commitSHA, filePath string) (*schema.FileMetrics, bool, error) {
	// Always a miss for NoneBackend
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return nil, false, nil
	}

	quotedTableName := quoteTableName(metricCacheTable, ms.backend)
	ph := ms.placeholders(3)
	query := fmt.Sprintf(`SELECT metrics, stored_at FROM %s WHERE repo_id = %s AND commit_sha = %s AND file_path = %s`,
		quotedTableName, ph[0], ph[1], ph[2])

	var blob []byte
	var storedAt int64
	row := ms.db.QueryRow(query, repoID, commitSHA, filePath)
	if err := row.Scan(&blob, &storedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	if ms.expired(storedAt) {
		if err := ms.deleteEntry(repoID, commitSHA, filePath); err != nil {
			return nil, false, fmt.Errorf("failed to evict expired cache entry: %w", err)
		}
		return nil, false, nil
	}

	var metrics schema.FileMetrics
	if err := json.Unmarshal(blob, &metrics); err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry for %s: %w", filePath, err)
	}
	return &metrics, true, nil
}

// Set inserts or replaces the metrics for a file.
func (ms *MetricStoreImpl) Set(repoID, commitSHA string, metrics schema.FileMetrics) error {
	// Skip for NoneBackend
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return nil
	}

	blob, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics for %s: %w", metrics.FilePath, err)
	}

	query := ms.getUpsertQuery()
	_, err = ms.db.Exec(query, repoID, commitSHA, metrics.FilePath, blob, ms.now().Unix())
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ms *MetricStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(metricCacheTable, ms.backend)
	switch ms.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (repo_id, commit_sha, file_path, metrics, stored_at) VALUES (?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE metrics = new.metrics, stored_at = new.stored_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (repo_id, commit_sha, file_path, metrics, stored_at) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (repo_id, commit_sha, file_path) DO UPDATE SET metrics = EXCLUDED.metrics, stored_at = EXCLUDED.stored_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (repo_id, commit_sha, file_path, metrics, stored_at) VALUES (?, ?, ?, ?, ?)`, quotedTableName)
	}
}

// deleteEntry removes a single cache row.
func (ms *MetricStoreImpl) deleteEntry(repoID, commitSHA, filePath string) error {
	quotedTableName := quoteTableName(metricCacheTable, ms.backend)
	ph := ms.placeholders(3)
	query := fmt.Sprintf(`DELETE FROM %s WHERE repo_id = %s AND commit_sha = %s AND file_path = %s`,
		quotedTableName, ph[0], ph[1], ph[2])
	_, err := ms.db.Exec(query, repoID, commitSHA, filePath)
	return err
}

// GetAllForCommit returns every live cached entry for a commit, keyed by
// path. Expired entries are evicted as they are seen.
func (ms *MetricStoreImpl) GetAllForCommit(repoID, commitSHA string) (map[string]schema.FileMetrics, error) {
	result := make(map[string]schema.FileMetrics)
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return result, nil
	}

	quotedTableName := quoteTableName(metricCacheTable, ms.backend)
	ph := ms.placeholders(2)
	query := fmt.Sprintf(`SELECT file_path, metrics, stored_at FROM %s WHERE repo_id = %s AND commit_sha = %s`,
		quotedTableName, ph[0], ph[1])

	rows, err := ms.db.Query(query, repoID, commitSHA)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stale []string
	for rows.Next() {
		var filePath string
		var blob []byte
		var storedAt int64
		if err := rows.Scan(&filePath, &blob, &storedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached metrics: %w", err)
		}
		if ms.expired(storedAt) {
			stale = append(stale, filePath)
			continue
		}
		var metrics schema.FileMetrics
		if err := json.Unmarshal(blob, &metrics); err != nil {
			return nil, fmt.Errorf("corrupt cache entry for %s: %w", filePath, err)
		}
		result[filePath] = metrics
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached metrics: %w", err)
	}

	for _, filePath := range stale {
		if err := ms.deleteEntry(repoID, commitSHA, filePath); err != nil {
			return nil, fmt.Errorf("failed to evict expired cache entry: %w", err)
		}
	}
	return result, nil
}

// InvalidateOlderThan deletes entries stored before the cutoff and returns
// the number of rows removed.
func (ms *MetricStoreImpl) InvalidateOlderThan(cutoff time.Time) (int64, error) {
	if ms.backend == schema.NoneBackend || ms.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(metricCacheTable, ms.backend)
	ph := ms.placeholders(1)
	query := fmt.Sprintf(`DELETE FROM %s WHERE stored_at < %s`, quotedTableName, ph[0])
	res, err := ms.db.Exec(query, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate old entries: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying DB connection.
func (ms *MetricStoreImpl) Close() error {
	if ms.db != nil {
		return ms.db.Close()
	}
	return nil
}

// GetStatus returns status information about the cache store.
func (ms *MetricStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ms.backend),
		Connected: ms.db != nil,
	}

	if ms.backend == schema.NoneBackend || ms.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(metricCacheTable, ms.backend)

	// Get total entries
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	row := ms.db.QueryRow(countQuery)
	if err := row.Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	// Get last entry time
	lastQuery := fmt.Sprintf("SELECT MAX(stored_at) FROM %s", quotedTableName)
	row = ms.db.QueryRow(lastQuery)
	var lastTs int64
	if err := row.Scan(&lastTs); err != nil {
		return status, fmt.Errorf("failed to get last entry time: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)

	// Get oldest entry time
	oldestQuery := fmt.Sprintf("SELECT MIN(stored_at) FROM %s", quotedTableName)
	row = ms.db.QueryRow(oldestQuery)
	var oldestTs int64
	if err := row.Scan(&oldestTs); err != nil {
		return status, fmt.Errorf("failed to get oldest entry time: %w", err)
	}
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	// Estimate table size (approximate)
	if ms.backend == schema.SQLiteBackend {
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		row = ms.db.QueryRow(sizeQuery)
		if err := row.Scan(&status.TableSizeBytes); err != nil {
			// If pragma fails, skip size
			status.TableSizeBytes = 0
		}
	} else {
		switch ms.backend {
		case schema.MySQLBackend:
			// Fallback rough estimate if information_schema query fails
			status.TableSizeBytes = int64(status.TotalEntries) * 1000

			cfg, err := mysql.ParseDSN(ms.connStr)
			if err != nil {
				break
			}
			dbName := cfg.DBName
			if dbName == "" {
				break
			}
			sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
			row := ms.db.QueryRow(sizeQuery, dbName, metricCacheTable)
			if err := row.Scan(&status.TableSizeBytes); err != nil {
				status.TableSizeBytes = int64(status.TotalEntries) * 1000
			}
		case schema.PostgreSQLBackend:
			sizeQuery := "SELECT pg_total_relation_size($1)"
			row = ms.db.QueryRow(sizeQuery, metricCacheTable)
			if err := row.Scan(&status.TableSizeBytes); err != nil {
				status.TableSizeBytes = int64(status.TotalEntries) * 1000 // Fallback rough estimate
			}
		default:
			status.TableSizeBytes = int64(status.TotalEntries) * 1000 // Rough estimate
		}
	}

	return status, nil
}
