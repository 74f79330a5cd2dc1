package explain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/revflo/revaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(dim schema.Dimension, findings []schema.Finding) *schema.DimensionScanResult {
	return &schema.DimensionScanResult{
		ScanType:      dim,
		Score:         65,
		Findings:      findings,
		FilesAnalyzed: 42,
	}
}

func TestTokenBudgetsCoverAllDimensions(t *testing.T) {
	for _, dim := range schema.AllDimensions {
		budget, ok := maxTokensByDimension[dim]
		require.True(t, ok, "dimension %s needs a token budget", dim)
		assert.Greater(t, budget, int64(0))

		_, ok = personaByDimension[dim]
		require.True(t, ok, "dimension %s needs a persona", dim)
	}
}

func TestBuildPromptIncludesTopFindings(t *testing.T) {
	findings := []schema.Finding{
		{RuleID: "QUAL001", Severity: schema.MediumSeverity, FilePath: "a.go", Description: "File exceeds 300 lines"},
		{RuleID: "MAINT001", Severity: schema.HighSeverity, FilePath: "b.go", Description: "Complex and frequently changed"},
	}
	result := sampleResult(schema.CodeQualityDim, findings)

	prompt := buildPrompt(result, maxTokensByDimension[schema.CodeQualityDim])

	assert.Contains(t, prompt, "code quality")
	assert.Contains(t, prompt, "65/100")
	assert.Contains(t, prompt, "42 files")
	// Higher severity comes first
	assert.Less(t, strings.Index(prompt, "MAINT001"), strings.Index(prompt, "QUAL001"))
	assert.Contains(t, prompt, `"summary"`)
	assert.Contains(t, prompt, `"top_recommendation"`)
}

func TestBuildPromptLimitsFindingCount(t *testing.T) {
	var findings []schema.Finding
	for i := 0; i < 12; i++ {
		findings = append(findings, schema.Finding{
			RuleID:      fmt.Sprintf("QUAL%03d", i),
			Severity:    schema.LowSeverity,
			FilePath:    fmt.Sprintf("pkg/file%d.go", i),
			Description: "something",
		})
	}
	result := sampleResult(schema.CodeQualityDim, findings)

	prompt := buildPrompt(result, maxTokensByDimension[schema.CodeQualityDim])

	shown := strings.Count(prompt, "- [low]")
	assert.Equal(t, maxFindingsInPrompt, shown)
}

func TestBuildPromptTruncatesToTokenBudget(t *testing.T) {
	long := strings.Repeat("x", 4000)
	findings := []schema.Finding{
		{RuleID: "TEST001", Severity: schema.MediumSeverity, FilePath: long, Description: long},
	}
	result := sampleResult(schema.TestingConfidenceDim, findings)

	budget := maxTokensByDimension[schema.TestingConfidenceDim]
	prompt := buildPrompt(result, budget)

	assert.LessOrEqual(t, len(prompt), int(budget)*4)
}

func TestParseExplanation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *schema.DimensionExplanation
		wantErr bool
	}{
		{
			name:  "plain json",
			input: `{"summary":"Two large files dominate the findings.","top_recommendation":"Split big.go into focused packages."}`,
			want: &schema.DimensionExplanation{
				Summary:           "Two large files dominate the findings.",
				TopRecommendation: "Split big.go into focused packages.",
			},
		},
		{
			name:  "fenced json with prose",
			input: "Here is my assessment:\n```json\n{\"summary\":\"Fine overall.\",\"top_recommendation\":\"Add tests.\"}\n```\nHope that helps!",
			want: &schema.DimensionExplanation{
				Summary:           "Fine overall.",
				TopRecommendation: "Add tests.",
			},
		},
		{
			name:    "no json at all",
			input:   "The code looks fine to me.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			input:   `{"summary": "unterminated`,
			wantErr: true,
		},
		{
			name:    "missing summary",
			input:   `{"top_recommendation":"Do things."}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExplanation(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
