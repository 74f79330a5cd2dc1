package schema

import "sort"

// severityRank orders severities for sorting; lower rank sorts first.
var severityRank = map[Severity]int{
	CriticalSeverity: 0,
	HighSeverity:     1,
	MediumSeverity:   2,
	LowSeverity:      3,
}

// SeverityRank returns the sort rank for a severity. Unknown severities
// sort last.
func SeverityRank(s Severity) int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// SortFindingsBySeverity orders findings critical-first, then by file path
// for a stable, deterministic order within each severity.
func SortFindingsBySeverity(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		ri, rj := SeverityRank(findings[i].Severity), SeverityRank(findings[j].Severity)
		if ri != rj {
			return ri < rj
		}
		return findings[i].FilePath < findings[j].FilePath
	})
}

// CountBySeverity tallies findings per severity level.
func CountBySeverity(findings []Finding) map[Severity]int {
	counts := make(map[Severity]int)
	for _, f := range findings {
		counts[f.Severity]++
	}
	return counts
}

// TopFindings returns the first n findings after severity ordering, without
// mutating the input slice.
func TopFindings(findings []Finding, n int) []Finding {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	SortFindingsBySeverity(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
