package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/revflo/revaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseRuleSetDefaults verifies an empty document keeps all defaults.
func TestParseRuleSetDefaults(t *testing.T) {
	rs, err := ParseRuleSet([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultRuleSet(), rs)
}

// TestParseRuleSetMerge verifies per-rule, per-key merging onto defaults.
func TestParseRuleSetMerge(t *testing.T) {
	doc := `
rules:
  hotspot:
    thresholds:
      complexity: 30
  large_file:
    enabled: false
  deep_nesting:
    severity: medium
`
	rs, err := ParseRuleSet([]byte(doc))
	require.NoError(t, err)

	// Overridden keys take effect.
	assert.Equal(t, 30.0, rs.Rules[schema.HotspotRule].Thresholds["complexity"])
	assert.False(t, rs.Rules[schema.LargeFileRule].Enabled)
	assert.Equal(t, schema.MediumSeverity, rs.Rules[schema.DeepNestingRule].Severity)

	// Untouched keys keep defaults.
	assert.Equal(t, 10.0, rs.Rules[schema.HotspotRule].Thresholds["churn"])
	assert.Equal(t, schema.CriticalSeverity, rs.Rules[schema.HotspotRule].Severity)
	assert.True(t, rs.Rules[schema.HotspotRule].Enabled)
	assert.Equal(t, 300.0, rs.Rules[schema.LargeFileRule].Thresholds["loc"])
	assert.Equal(t, schema.FilterCriticalHigh, rs.Settings.PRComments.SeverityFilter)
}

// TestParseRuleSetRejectsInvalid verifies fail-closed validation: malformed
// or out-of-range values are errors, never silent fallbacks.
func TestParseRuleSetRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown severity",
			doc:  "rules:\n  hotspot:\n    severity: urgent\n",
		},
		{
			name: "negative threshold",
			doc:  "rules:\n  large_file:\n    thresholds:\n      loc: -5\n",
		},
		{
			name: "non-numeric threshold",
			doc:  "rules:\n  large_file:\n    thresholds:\n      loc: lots\n",
		},
		{
			name: "non-boolean enabled",
			doc:  "rules:\n  hotspot:\n    enabled: maybe\n",
		},
		{
			name: "invalid severity filter",
			doc:  "settings:\n  pr_comments:\n    severity_filter: everything\n",
		},
		{
			name: "malformed yaml",
			doc:  "rules: [unclosed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRuleSet([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

// TestParseRuleSetIgnoresUnknownRules verifies unknown rule names are
// skipped without failing the parse.
func TestParseRuleSetIgnoresUnknownRules(t *testing.T) {
	doc := `
rules:
  made_up_rule:
    enabled: true
    thresholds:
      whatever: 1
`
	rs, err := ParseRuleSet([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, schema.DefaultRuleSet(), rs)
}

// TestLoadRuleSet verifies file discovery order and missing-file defaults.
func TestLoadRuleSet(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		rs, err := LoadRuleSet(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, schema.DefaultRuleSet(), rs)
	})

	t.Run("root config file", func(t *testing.T) {
		dir := t.TempDir()
		doc := "rules:\n  no_tests:\n    enabled: false\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".revaudit.yml"), []byte(doc), 0o644))

		rs, err := LoadRuleSet(dir)
		require.NoError(t, err)
		assert.False(t, rs.Rules[schema.NoTestsRule].Enabled)
	})

	t.Run("github fallback location", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ".github"), 0o755))
		doc := "rules:\n  complex_module:\n    thresholds:\n      complexity: 50\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".github", "revaudit.yml"), []byte(doc), 0o644))

		rs, err := LoadRuleSet(dir)
		require.NoError(t, err)
		assert.Equal(t, 50.0, rs.Rules[schema.ComplexModuleRule].Thresholds["complexity"])
	})

	t.Run("invalid file is an error", func(t *testing.T) {
		dir := t.TempDir()
		doc := "rules:\n  hotspot:\n    severity: urgent\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".revaudit.yml"), []byte(doc), 0o644))

		_, err := LoadRuleSet(dir)
		assert.Error(t, err)
	})
}
