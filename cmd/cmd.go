// Package cmd defines the command-line interface for revaudit.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/explain"
	"github.com/revflo/revaudit/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(riskCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("repo-id", "", "Stable repository identity (derived from the repo root when empty)")
	rootCmd.PersistentFlags().String("commit", "", "Commit to audit (defaults to HEAD)")
	rootCmd.PersistentFlags().String("base-commit", "", "Previously audited commit; enables incremental scans")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json or csv")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Metric cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "Metric cache entry lifetime (e.g., 720h); default 30 days")
	rootCmd.PersistentFlags().String("audit-backend", "", "Audit tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("audit-db-connect", "", "Database connection string for audit tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("churn-window", "", "Churn lookback window (e.g., 2160h); default 90 days")
	rootCmd.PersistentFlags().Int("churn-top", contract.DefaultChurnTopN, "Number of largest files to estimate churn for")
	rootCmd.PersistentFlags().String("repo-url", "", "Remote repository (owner/name) for API-based churn")
	rootCmd.PersistentFlags().String("github-token", "", "GitHub token for API-based churn (prefer the env variable)")
	rootCmd.PersistentFlags().String("explain", "no", "Enable AI explanations for weak dimensions (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("model", explain.DefaultModel, "Model identifier for AI explanations")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}

	// Bind all flags of cacheInvalidateCmd to Viper
	cacheInvalidateCmd.Flags().String("older-than", "720h", "Delete cached metrics stored before now minus this duration")
	if err := viper.BindPFlags(cacheInvalidateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache invalidate flags", err)
	}
}
