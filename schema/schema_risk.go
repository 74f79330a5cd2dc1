package schema

// RiskItem is a single issue produced by the legacy single-pass risk engine.
type RiskItem struct {
	Title             string   `json:"title"`
	WhyItMatters      string   `json:"why_it_matters"`
	AffectedAreas     []string `json:"affected_areas"`
	Likelihood        string   `json:"likelihood"`
	RecommendedAction string   `json:"recommended_action"`
	Severity          Severity `json:"severity"`
}

// RiskReport is the legacy engine's full output: the ordered item list plus
// the legacy-generation score (100 minus 15/10/5/2 deductions, floored at 0).
type RiskReport struct {
	Items []RiskItem `json:"items"`
	Score int        `json:"score"`
}
