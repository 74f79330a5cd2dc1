package core

import "github.com/revflo/revaudit/schema"

// scoreCeiling is the starting score before deductions.
const scoreCeiling = 100

// aiScoreThreshold gates AI explanations: healthy dimensions don't need one.
const aiScoreThreshold = 90

// dimensionDeductions are the per-finding score deductions used by the
// dimension scanners.
var dimensionDeductions = map[schema.Severity]int{
	schema.CriticalSeverity: 20,
	schema.HighSeverity:     10,
	schema.MediumSeverity:   5,
	schema.LowSeverity:      2,
}

// legacyDeductions are the per-item deductions used by the legacy risk
// engine. They predate the dimension scanners and are kept for score
// compatibility with existing reports.
var legacyDeductions = map[schema.Severity]int{
	schema.CriticalSeverity: 15,
	schema.HighSeverity:     10,
	schema.MediumSeverity:   5,
	schema.LowSeverity:      2,
}

// CalculateScore converts findings into a 0-100 dimension score.
func CalculateScore(findings []schema.Finding) int {
	score := scoreCeiling
	for _, f := range findings {
		score -= dimensionDeductions[f.Severity]
	}
	if score < 0 {
		return 0
	}
	return score
}

// CalculateLegacyScore converts risk items into a 0-100 score with the
// legacy deduction table.
func CalculateLegacyScore(items []schema.RiskItem) int {
	score := scoreCeiling
	for _, item := range items {
		score -= legacyDeductions[item.Severity]
	}
	if score < 0 {
		return 0
	}
	return score
}

// ShouldRunAI reports whether a dimension result warrants an AI
// explanation: there must be something to explain, and the score must
// show room for improvement.
func ShouldRunAI(findings []schema.Finding, score int) bool {
	return len(findings) > 0 && score < aiScoreThreshold
}

// OverallScore averages the scores of successful dimension results,
// truncated to int. No successful dimensions means 0.
func OverallScore(results []*schema.DimensionScanResult) int {
	sum, count := 0, 0
	for _, r := range results {
		if r.Status != schema.CompletedStatus {
			continue
		}
		sum += r.Score
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / count
}

// TotalIssues counts findings across all dimension results.
func TotalIssues(results []*schema.DimensionScanResult) int {
	total := 0
	for _, r := range results {
		total += len(r.Findings)
	}
	return total
}
