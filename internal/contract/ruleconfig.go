package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/revflo/revaudit/schema"
	"gopkg.in/yaml.v3"
)

// ruleConfigFiles are the locations searched in the audited repository,
// first match wins.
var ruleConfigFiles = []string{
	".revaudit.yml",
	".revaudit.yaml",
	filepath.Join(".github", "revaudit.yml"),
}

// rawRule mirrors one rule entry in the config file. Pointer fields
// distinguish "absent" from "zero" so merging only touches supplied keys.
// A non-boolean enabled or a non-numeric threshold fails to unmarshal,
// which is exactly the fail-closed behavior we want.
type rawRule struct {
	Enabled    *bool               `yaml:"enabled"`
	Severity   *string             `yaml:"severity"`
	Thresholds map[string]*float64 `yaml:"thresholds"`
}

// rawPRComments mirrors the pr_comments settings block.
type rawPRComments struct {
	Enabled        *bool   `yaml:"enabled"`
	SeverityFilter *string `yaml:"severity_filter"`
}

// rawSettings mirrors the settings block.
type rawSettings struct {
	PRComments *rawPRComments `yaml:"pr_comments"`
}

// rawRuleFile is the top-level shape of a repo rule config file.
type rawRuleFile struct {
	Rules    map[string]rawRule `yaml:"rules"`
	Settings *rawSettings       `yaml:"settings"`
}

// LoadRuleSet loads the rule configuration for a repository. A missing
// config file yields the defaults; a malformed or invalid file is an error
// (never a silent fallback).
func LoadRuleSet(repoRoot string) (schema.RuleSet, error) {
	for _, rel := range ruleConfigFiles {
		path := filepath.Join(repoRoot, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return schema.RuleSet{}, fmt.Errorf("cannot read %s: %w", rel, err)
		}
		rs, err := ParseRuleSet(data)
		if err != nil {
			return schema.RuleSet{}, fmt.Errorf("%s: %w", rel, err)
		}
		return rs, nil
	}
	return schema.DefaultRuleSet(), nil
}

// ParseRuleSet parses a rule config document and merges it onto the
// defaults. Merging is per-rule and per-threshold-key: keys absent from the
// document keep their default values.
func ParseRuleSet(data []byte) (schema.RuleSet, error) {
	var raw rawRuleFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return schema.RuleSet{}, fmt.Errorf("malformed YAML: %w", err)
	}

	rs := schema.DefaultRuleSet()

	for name, override := range raw.Rules {
		base, ok := rs.Rules[name]
		if !ok {
			LogWarn("rule config", fmt.Errorf("unknown rule %q ignored", name))
			continue
		}
		if override.Enabled != nil {
			base.Enabled = *override.Enabled
		}
		if override.Severity != nil {
			sev := schema.Severity(*override.Severity)
			if _, ok := schema.ValidSeverities[sev]; !ok {
				return schema.RuleSet{}, fmt.Errorf("rule %q: invalid severity %q (must be critical, high, medium, or low)", name, *override.Severity)
			}
			base.Severity = sev
		}
		for key, val := range override.Thresholds {
			if val == nil {
				return schema.RuleSet{}, fmt.Errorf("rule %q: threshold %q must be a number", name, key)
			}
			if *val < 0 {
				return schema.RuleSet{}, fmt.Errorf("rule %q: threshold %q cannot be negative, got %v", name, key, *val)
			}
			base.Thresholds[key] = *val
		}
		rs.Rules[name] = base
	}

	if raw.Settings != nil && raw.Settings.PRComments != nil {
		pr := raw.Settings.PRComments
		if pr.Enabled != nil {
			rs.Settings.PRComments.Enabled = *pr.Enabled
		}
		if pr.SeverityFilter != nil {
			if _, ok := schema.ValidSeverityFilters[*pr.SeverityFilter]; !ok {
				return schema.RuleSet{}, fmt.Errorf("invalid severity_filter %q (must be all, critical_high, or critical)", *pr.SeverityFilter)
			}
			rs.Settings.PRComments.SeverityFilter = *pr.SeverityFilter
		}
	}

	return rs, nil
}
