package core

import (
	"fmt"
	"sort"

	"github.com/revflo/revaudit/schema"
)

// EvaluateRisk runs the legacy first-match rule chain over per-file
// metrics and returns a risk report. Per file, the chain fires at most
// one of hotspot, deep_nesting, large_file, complex_module; the
// no_tests rule fires independently of the chain.
func EvaluateRisk(metrics map[string]schema.FileMetrics, rules schema.RuleSet) schema.RiskReport {
	paths := make([]string, 0, len(metrics))
	for path := range metrics {
		paths = append(paths, path)
	}
	sort.Strings(paths) // deterministic report order

	var items []schema.RiskItem
	for _, path := range paths {
		m := metrics[path]
		if item := evaluateChain(path, m, rules); item != nil {
			items = append(items, *item)
		}
		if item := evaluateNoTests(path, m, rules); item != nil {
			items = append(items, *item)
		}
	}

	return schema.RiskReport{
		Items: items,
		Score: CalculateLegacyScore(items),
	}
}

// evaluateChain applies the first-match-wins chain to one file.
func evaluateChain(path string, m schema.FileMetrics, rules schema.RuleSet) *schema.RiskItem {
	if rule, ok := enabledRule(rules, schema.HotspotRule); ok {
		if m.Complexity > rule.Thresholds["complexity"] && float64(m.Churn90d) > rule.Thresholds["churn"] {
			return &schema.RiskItem{
				Title:             fmt.Sprintf("Hotspot: %s", path),
				WhyItMatters:      "Complex code that changes frequently concentrates defects and slows every change made near it.",
				AffectedAreas:     []string{path},
				Likelihood:        "high",
				RecommendedAction: "Refactor into smaller units and add regression tests before the next feature touches this file.",
				Severity:          rule.Severity,
			}
		}
	}

	if rule, ok := enabledRule(rules, schema.DeepNestingRule); ok {
		if float64(m.IndentDepth) > rule.Thresholds["indent_depth"] {
			return &schema.RiskItem{
				Title:             "Deeply Nested Logic",
				WhyItMatters:      "Deep nesting hides control flow and makes edge cases easy to miss.",
				AffectedAreas:     []string{path},
				Likelihood:        "medium",
				RecommendedAction: "Flatten with early returns or extract the inner blocks into named functions.",
				Severity:          rule.Severity,
			}
		}
	}

	if rule, ok := enabledRule(rules, schema.LargeFileRule); ok {
		if float64(m.LOC) > rule.Thresholds["loc"] {
			return &schema.RiskItem{
				Title:             "Large File",
				WhyItMatters:      "Large files accumulate unrelated responsibilities and create merge contention.",
				AffectedAreas:     []string{path},
				Likelihood:        "medium",
				RecommendedAction: "Split by responsibility into focused modules.",
				Severity:          rule.Severity,
			}
		}
	}

	if rule, ok := enabledRule(rules, schema.ComplexModuleRule); ok {
		if m.Complexity > rule.Thresholds["complexity"] {
			return &schema.RiskItem{
				Title:             "Complex Module",
				WhyItMatters:      "High branch density makes behavior hard to verify and risky to change.",
				AffectedAreas:     []string{path},
				Likelihood:        "medium",
				RecommendedAction: "Reduce branching by extracting decision tables or strategy functions.",
				Severity:          rule.Severity,
			}
		}
	}

	return nil
}

// evaluateNoTests applies the test-coverage rule, which fires
// independently of the main chain.
func evaluateNoTests(path string, m schema.FileMetrics, rules schema.RuleSet) *schema.RiskItem {
	rule, ok := enabledRule(rules, schema.NoTestsRule)
	if !ok {
		return nil
	}
	if float64(m.LOC) > rule.Thresholds["min_loc"] && !m.HasTest {
		return &schema.RiskItem{
			Title:             "No Tests",
			WhyItMatters:      "Untested code of this size fails silently; regressions surface in production instead of CI.",
			AffectedAreas:     []string{path},
			Likelihood:        "medium",
			RecommendedAction: "Add a test file covering the primary paths through this module.",
			Severity:          rule.Severity,
		}
	}
	return nil
}

// enabledRule fetches a rule if it exists and is enabled.
func enabledRule(rules schema.RuleSet, name string) (schema.Rule, bool) {
	rule, ok := rules.Rules[name]
	if !ok || !rule.Enabled {
		return schema.Rule{}, false
	}
	return rule, true
}
