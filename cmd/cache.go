package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/iocache"
	"github.com/revflo/revaudit/schema"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	ttl := contract.DefaultCacheTTL
	if ttlStr := viper.GetString("cache-ttl"); ttlStr != "" {
		parsed, err := time.ParseDuration(ttlStr)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl: %w", err)
		}
		ttl = parsed
	}

	// Initialize caching with the loaded config (no audit tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, ttl, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	cfg.CacheTTL = ttl

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on metric cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by audit commands. This avoids Git repo validation
// and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the per-commit file metric cache (improves performance)",
	Long: `Manage the file metric cache that speeds up repeated audits.

Revaudit caches per-file metrics keyed by repository and commit, so auditing
the same commit again skips file analysis entirely. Entries expire after the
configured TTL (30 days by default) and are removed lazily on read.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status     - Show cache statistics and connection info
  clear      - Remove all cached metrics
  invalidate - Remove cached metrics older than a cutoff

Examples:
  # Check cache status
  revaudit cache status

  # Clear cache after history rewrites
  revaudit cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached file metrics",
	Long: `Delete all cached file metrics from the configured backend.

Use this when:
- Repository history was rewritten (rebase, force push)
- Cache may be stale or corrupted
- Testing audit performance without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  revaudit cache clear

  # Clear MySQL cache (set connection string via env variable)
  REVAUDIT_CACHE_BACKEND=mysql REVAUDIT_CACHE_DB_CONNECT="..." revaudit cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the file metric cache.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  revaudit cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetMetricStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}

// cacheInvalidateCmd removes cache entries older than a cutoff.
var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Remove cached metrics stored before a cutoff",
	Long: `Delete cached file metrics older than the given age.

Expired entries are normally removed lazily when read; this command removes
them eagerly, which keeps the cache database small for long-lived setups.

Examples:
  # Remove entries older than 30 days (default)
  revaudit cache invalidate

  # Remove entries older than a week
  revaudit cache invalidate --older-than 168h`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		age, err := time.ParseDuration(viper.GetString("older-than"))
		if err != nil {
			contract.LogFatal("Invalid older-than duration", err)
		}

		removed, err := iocache.Manager.GetMetricStore().InvalidateOlderThan(time.Now().Add(-age))
		if err != nil {
			contract.LogFatal("Failed to invalidate cache entries", err)
		}
		fmt.Printf("Removed %d cache entries older than %s.\n", removed, age)
	},
}
