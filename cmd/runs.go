package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/iocache"
	"github.com/revflo/revaudit/schema"
)

// runsSetup loads minimal configuration needed for audit data operations.
// This is used by commands that need audit store access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get audit-related config values
	backendStr := viper.GetString("audit-backend")
	connStr := viper.GetString("audit-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize stores with the loaded config (no metric cache for audit data commands)
	if err := iocache.InitStores("", "", 0, backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize audit store: %w", err)
	}

	cfg.AuditBackend = backend
	cfg.AuditDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for audit data commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get audit-related config values
	backendStr := viper.GetString("audit-backend")
	connStr := viper.GetString("audit-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetAuditDBFilePath()
	}

	cfg.AuditBackend = backend
	cfg.AuditDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runsCmd focused on stored audit run management.
//
// Note: Runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by audit commands. This avoids Git repo validation
// and complex config processing for simple data operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored audit runs and their results",
	Long: `Manage the audit run history stored by the audit tracking backend.

When enabled, revaudit records every audit run, storing:
- Run metadata (repository, commit, status, duration)
- Per-dimension scores, findings and scan metrics
- Overall score and total issue counts

This enables longitudinal tracking of repository health across commits.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show audit tracking statistics
  clear   - Remove all stored runs
  migrate - Run database schema migrations

Examples:
  # Check audit tracking status
  revaudit runs status

  # Reset stored history
  revaudit runs clear`,
}

// runsClearCmd clears the stored audit data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored audit runs and dimension results",
	Long: `Delete all stored audit runs and their dimension scan results.

WARNING: This action cannot be undone. Consider exporting data first.

Use this when:
- Resetting health tracking for a repository
- Database storage is full
- Starting fresh audit history

Examples:
  # Export before clearing
  revaudit export --output-file backup.parquet
  revaudit runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearAudit(cfg.AuditBackend, contract.GetAuditDBFilePath(), cfg.AuditDBConnect); err != nil {
			contract.LogFatal("Failed to clear audit data", err)
		}
		fmt.Println("Audit data cleared successfully.")
	},
}

// runsStatusCmd shows audit tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display audit tracking statistics and connection details",
	Long: `Show detailed information about stored audit runs.

Displays:
- Backend type and connection status
- Total number of audit runs stored
- Last and oldest run timestamps
- Total issues found across all runs
- Database table sizes

Examples:
  # Check audit tracking status
  revaudit runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetAuditStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get audit status", err)
		}
		iocache.PrintAuditStatus(status)
	},
}

// runsMigrateCmd runs database migrations for the audit store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the audit tracking store.

Migrations allow:
- Upgrading to new schema versions when revaudit is updated
- Safely modifying database structure without data loss
- Rolling back schema changes if needed

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  revaudit runs migrate

  # Migrate to specific version
  revaudit runs migrate --target-version 1

  # Rollback to previous version
  revaudit runs migrate --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateAudit(cfg.AuditBackend, cfg.AuditDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
