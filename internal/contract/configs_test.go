package contract

import (
	"context"
	"testing"
	"time"

	"github.com/revflo/revaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation as-is.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		RepoPathStr:  ".",
		Workers:      4,
		Output:       "text",
		CacheBackend: "none",
		AuditBackend: "none",
		ChurnTopN:    20,
		Color:        "yes",
		Explain:      "no",
	}
}

// newResolvedClient returns a mock git client that resolves the repo root
// and HEAD successfully.
func newResolvedClient(t *testing.T) *MockGitClient {
	t.Helper()
	client := &MockGitClient{}
	client.On("GetRepoRoot", mock.Anything, ".").Return(t.TempDir(), nil)
	client.On("GetRepoHash", mock.Anything, mock.Anything).Return("abc123", nil)
	return client
}

// TestProcessAndValidateDefaults verifies a minimal valid input populates
// derived fields.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	client := newResolvedClient(t)

	err := ProcessAndValidate(context.Background(), cfg, client, validInput())
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultChurnWindow, cfg.ChurnWindow)
	assert.Equal(t, "abc123", cfg.CommitSHA)
	assert.NotEmpty(t, cfg.RepoID)
	assert.Len(t, cfg.RepoID, 16)
	assert.Equal(t, schema.DefaultRuleSet(), cfg.Rules)
}

// TestProcessAndValidateRejections covers scalar validation failures.
func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }},
		{"bad output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"bad backend", func(in *ConfigRawInput) { in.CacheBackend = "oracle" }},
		{"bad ttl", func(in *ConfigRawInput) { in.CacheTTL = "fortnight" }},
		{"negative ttl", func(in *ConfigRawInput) { in.CacheTTL = "-1h" }},
		{"bad churn window", func(in *ConfigRawInput) { in.ChurnWindow = "soon" }},
		{"zero churn top", func(in *ConfigRawInput) { in.ChurnTopN = 0 }},
		{"bad color", func(in *ConfigRawInput) { in.Color = "sometimes" }},
		{"mysql without connect", func(in *ConfigRawInput) { in.CacheBackend = "mysql" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			input := validInput()
			tt.mutate(input)
			err := ProcessAndValidate(context.Background(), cfg, newResolvedClient(t), input)
			assert.Error(t, err)
		})
	}
}

// TestConfigClone verifies deep copy semantics for mutable fields.
func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Excludes: []string{"vendor/"},
		Rules:    schema.DefaultRuleSet(),
		CacheTTL: time.Hour,
	}
	clone := cfg.Clone()

	clone.Excludes[0] = "dist/"
	hotspot := clone.Rules.Rules[schema.HotspotRule]
	hotspot.Thresholds["complexity"] = 99

	assert.Equal(t, "vendor/", cfg.Excludes[0])
	assert.Equal(t, 25.0, cfg.Rules.Rules[schema.HotspotRule].Thresholds["complexity"])
}

// TestDeriveRepoID verifies identity derivation is stable and bounded.
func TestDeriveRepoID(t *testing.T) {
	a := DeriveRepoID("/some/repo")
	b := DeriveRepoID("/some/repo")
	c := DeriveRepoID("/other/repo")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

// TestValidateDatabaseConnectionString covers backend-specific formats.
func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pw@tcp(localhost:3306)/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost:3306"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost port=5432 user=pg dbname=db"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "postgres://pg@localhost/db"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "just-a-host"))
}
