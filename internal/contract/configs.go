package contract

import (
	"context"
	"crypto/sha256"
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/revflo/revaudit/schema"
)

// Default values for configuration.
const (
	DefaultCacheTTL    = 30 * 24 * time.Hour // metric cache entries live this long
	DefaultChurnWindow = 90 * 24 * time.Hour // churn lookback window
	DefaultChurnTopN   = 20                  // files considered for churn estimation
	DefaultDiffTimeout = 30 * time.Second    // hard deadline for git diff
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// FullScanRatio is the fraction of tracked files beyond which an
// incremental scan falls back to a full scan.
const FullScanRatio = 0.5

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for an audit.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath   string // Absolute path to the repository root
	RepoID     string // Stable repository identity (explicit or derived)
	CommitSHA  string // Commit under audit (HEAD if not given)
	BaseCommit string // Previous audited commit, empty forces a full scan

	Workers  int
	Excludes []string

	Output     schema.OutputMode
	OutputFile string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	AuditBackend   schema.DatabaseBackend
	AuditDBConnect string // Please use env var as this is plaintext

	ChurnWindow time.Duration
	ChurnTopN   int

	RepoURL     string // Remote repo (owner/name) for API-based churn
	GitHubToken string

	ExplainEnabled bool   // AI explainer on/off; also requires an API key
	AnthropicModel string // Model identifier for the explainer

	// Rules is the merged rule configuration loaded from the audited repo.
	Rules schema.RuleSet

	UseColors bool // Enable colored labels in table output
	Width     int  // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	RepoID         string `mapstructure:"repo-id"`
	Commit         string `mapstructure:"commit"`
	BaseCommit     string `mapstructure:"base-commit"`
	Workers        int    `mapstructure:"workers"`
	Exclude        string `mapstructure:"exclude"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	CacheTTL       string `mapstructure:"cache-ttl"`
	AuditBackend   string `mapstructure:"audit-backend"`
	AuditDBConnect string `mapstructure:"audit-db-connect"`
	ChurnWindow    string `mapstructure:"churn-window"`
	ChurnTopN      int    `mapstructure:"churn-top"`
	RepoURL        string `mapstructure:"repo-url"`
	GitHubToken    string `mapstructure:"github-token"`
	Explain        string `mapstructure:"explain"`
	Model          string `mapstructure:"model"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = make([]string, len(c.Excludes))
		copy(clone.Excludes, c.Excludes)
	}
	clone.Rules.Rules = make(map[string]schema.Rule, len(c.Rules.Rules))
	for name, rule := range c.Rules.Rules {
		ruleCopy := rule
		ruleCopy.Thresholds = make(map[string]float64, len(rule.Thresholds))
		maps.Copy(ruleCopy.Thresholds, rule.Thresholds)
		clone.Rules.Rules[name] = ruleCopy
	}
	return &clone
}

// CloneWithCommit creates a copy of the Config targeting a different commit pair.
func (c *Config) CloneWithCommit(base, target string) *Config {
	clone := c.Clone()
	clone.BaseCommit = base
	clone.CommitSHA = target
	return clone
}

// DeriveRepoID returns a stable identity for a repository root path. Used
// when the user does not supply an explicit repo ID.
func DeriveRepoID(repoRoot string) string {
	sum := sha256.Sum256([]byte(repoRoot))
	return fmt.Sprintf("%x", sum)[:16]
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processBackends(cfg, input); err != nil {
		return err
	}
	if err := resolveRepo(ctx, cfg, client, input); err != nil {
		return err
	}
	// Rule config is fail-closed: a malformed repo config file aborts the
	// audit rather than silently reverting to defaults.
	rules, err := LoadRuleSet(cfg.RepoPath)
	if err != nil {
		return fmt.Errorf("invalid rule configuration: %w", err)
	}
	cfg.Rules = rules
	return nil
}

// validateSimpleInputs handles scalar fields with no cross-dependencies.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", input.Workers)
	}
	cfg.Workers = input.Workers

	out := schema.OutputMode(input.Output)
	if _, ok := schema.ValidOutputModes[out]; !ok {
		return fmt.Errorf("invalid output mode: %s. Must be text, json, or csv", input.Output)
	}
	cfg.Output = out
	cfg.OutputFile = input.OutputFile

	if input.Exclude != "" {
		cfg.Excludes = strings.Split(input.Exclude, ",")
	}

	if input.ChurnTopN <= 0 {
		return fmt.Errorf("churn-top must be positive, got %d", input.ChurnTopN)
	}
	cfg.ChurnTopN = input.ChurnTopN

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative, got %d", input.Width)
	}
	cfg.Width = input.Width

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	cfg.UseColors = useColors

	explain, err := ParseBoolString(input.Explain)
	if err != nil {
		return fmt.Errorf("invalid explain value: %w", err)
	}
	cfg.ExplainEnabled = explain
	cfg.AnthropicModel = input.Model

	cfg.RepoURL = input.RepoURL
	cfg.GitHubToken = input.GitHubToken
	return nil
}

// processDurations parses duration-typed inputs.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("cache-ttl must be positive, got %s", ttl)
		}
		cfg.CacheTTL = ttl
	}

	cfg.ChurnWindow = DefaultChurnWindow
	if input.ChurnWindow != "" {
		window, err := time.ParseDuration(input.ChurnWindow)
		if err != nil {
			return fmt.Errorf("invalid churn-window: %w", err)
		}
		if window <= 0 {
			return fmt.Errorf("churn-window must be positive, got %s", window)
		}
		cfg.ChurnWindow = window
	}
	return nil
}

// processBackends validates persistence backend selection.
func processBackends(cfg *Config, input *ConfigRawInput) error {
	cacheBackend := schema.DatabaseBackend(input.CacheBackend)
	if _, ok := schema.ValidDatabaseBackends[cacheBackend]; !ok {
		return fmt.Errorf("invalid cache-backend: %s. Must be sqlite, mysql, postgresql, or none", input.CacheBackend)
	}
	if err := ValidateDatabaseConnectionString(cacheBackend, input.CacheDBConnect); err != nil {
		return err
	}
	cfg.CacheBackend = cacheBackend
	cfg.CacheDBConnect = input.CacheDBConnect

	auditBackend := schema.DatabaseBackend(input.AuditBackend)
	if input.AuditBackend == "" {
		auditBackend = schema.NoneBackend
	} else if _, ok := schema.ValidDatabaseBackends[auditBackend]; !ok {
		return fmt.Errorf("invalid audit-backend: %s. Must be sqlite, mysql, postgresql, or none", input.AuditBackend)
	}
	if err := ValidateDatabaseConnectionString(auditBackend, input.AuditDBConnect); err != nil {
		return err
	}
	cfg.AuditBackend = auditBackend
	cfg.AuditDBConnect = input.AuditDBConnect
	return nil
}

// resolveRepo resolves the repository root, identity and target commit.
func resolveRepo(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	root, err := client.GetRepoRoot(ctx, input.RepoPathStr)
	if err != nil {
		return fmt.Errorf("cannot resolve repository at %q: %w", input.RepoPathStr, err)
	}
	cfg.RepoPath = root

	if input.RepoID != "" {
		cfg.RepoID = input.RepoID
	} else {
		cfg.RepoID = DeriveRepoID(root)
	}

	if input.Commit != "" {
		cfg.CommitSHA = input.Commit
	} else {
		head, err := client.GetRepoHash(ctx, root)
		if err != nil {
			return fmt.Errorf("cannot resolve HEAD for %q: %w", root, err)
		}
		cfg.CommitSHA = head
	}
	cfg.BaseCommit = input.BaseCommit
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("invalid MySQL connection string. Expected format: user:password@tcp(host:port)/dbname")
		}
		return nil
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db connect string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("invalid PostgreSQL connection string. Expected key=value pairs or a postgres:// URL")
		}
		return nil
	default:
		return fmt.Errorf("unsupported backend: %s", backend)
	}
}

// ProcessProfilingConfig validates profiling inputs.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	if prefix == "" {
		profile.Enabled = false
		return nil
	}
	if strings.ContainsAny(prefix, " \t") {
		return fmt.Errorf("profile prefix cannot contain whitespace: %q", prefix)
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}
