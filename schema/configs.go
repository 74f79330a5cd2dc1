package schema

// Rule names recognized by the rule engine. Unknown names in a repo config
// file are ignored with a warning.
const (
	HotspotRule       = "hotspot"
	DeepNestingRule   = "deep_nesting"
	LargeFileRule     = "large_file"
	ComplexModuleRule = "complex_module"
	NoTestsRule       = "no_tests"
)

// Rule is one configurable detection rule: whether it fires at all, what
// severity it reports, and its numeric thresholds (strict greater-than).
type Rule struct {
	Enabled    bool               `yaml:"enabled"`
	Severity   Severity           `yaml:"severity"`
	Thresholds map[string]float64 `yaml:"thresholds"`
}

// PRCommentSettings controls which findings would be surfaced as PR comments.
type PRCommentSettings struct {
	Enabled        bool   `yaml:"enabled"`
	SeverityFilter string `yaml:"severity_filter"`
}

// Settings holds non-rule configuration from a repo config file.
type Settings struct {
	PRComments PRCommentSettings `yaml:"pr_comments"`
}

// RuleSet is the fully-merged rule configuration used by both scoring
// generations. Always constructed via DefaultRuleSet plus repo overrides.
type RuleSet struct {
	Rules    map[string]Rule `yaml:"rules"`
	Settings Settings        `yaml:"settings"`
}

// DefaultRuleSet returns the built-in rule configuration. Callers get a
// fresh copy each time; merging mutates it freely.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Rules: map[string]Rule{
			HotspotRule: {
				Enabled:    true,
				Severity:   CriticalSeverity,
				Thresholds: map[string]float64{"complexity": 25, "churn": 10},
			},
			DeepNestingRule: {
				Enabled:    true,
				Severity:   HighSeverity,
				Thresholds: map[string]float64{"indent_depth": 6},
			},
			LargeFileRule: {
				Enabled:    true,
				Severity:   MediumSeverity,
				Thresholds: map[string]float64{"loc": 300},
			},
			ComplexModuleRule: {
				Enabled:    true,
				Severity:   HighSeverity,
				Thresholds: map[string]float64{"complexity": 35},
			},
			NoTestsRule: {
				Enabled:    true,
				Severity:   MediumSeverity,
				Thresholds: map[string]float64{"min_loc": 100},
			},
		},
		Settings: Settings{
			PRComments: PRCommentSettings{
				Enabled:        true,
				SeverityFilter: FilterCriticalHigh,
			},
		},
	}
}
