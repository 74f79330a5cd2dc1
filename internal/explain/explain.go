// Package explain generates bounded, advisory explanations of dimension
// scan results using the Anthropic API. Output never feeds back into
// scores or findings.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-3-5-haiku-latest"

// explainTemperature keeps output deterministic-ish across runs.
const explainTemperature = 0.2

// maxFindingsInPrompt caps how many findings are shown to the model.
const maxFindingsInPrompt = 5

// maxTokensByDimension bounds response length per dimension. Heavier
// architectural narratives get more room than binary checks.
var maxTokensByDimension = map[schema.Dimension]int64{
	schema.SecurityDim:          600,
	schema.PerformanceDim:       500,
	schema.CodeQualityDim:       400,
	schema.ArchitectureDim:      700,
	schema.MaintainabilityDim:   300,
	schema.TestingConfidenceDim: 200,
}

// personaByDimension frames the model's perspective per dimension.
var personaByDimension = map[schema.Dimension]string{
	schema.SecurityDim:          "a security engineer reviewing static analysis output",
	schema.PerformanceDim:       "a performance engineer looking for costly code paths",
	schema.CodeQualityDim:       "a senior engineer doing a code quality review",
	schema.ArchitectureDim:      "a software architect assessing structural health",
	schema.MaintainabilityDim:   "a tech lead planning maintenance work",
	schema.TestingConfidenceDim: "a QA engineer assessing test coverage risk",
}

// Explainer implements the TextModel interface on top of the Anthropic
// Messages API.
type Explainer struct {
	client anthropic.Client
	model  string
}

var _ contract.TextModel = &Explainer{} // Compile-time check

// NewExplainer creates an Explainer. The API key is read from the
// ANTHROPIC_API_KEY environment variable by the SDK.
func NewExplainer(model string) *Explainer {
	if model == "" {
		model = DefaultModel
	}
	return &Explainer{
		client: anthropic.NewClient(),
		model:  model,
	}
}

// ExplainDimension asks the model to summarize one dimension's findings.
// The response is bounded by the dimension's token ceiling and parsed
// into a summary plus a single top recommendation.
func (e *Explainer) ExplainDimension(ctx context.Context, result *schema.DimensionScanResult) (*schema.DimensionExplanation, error) {
	maxTokens, ok := maxTokensByDimension[result.ScanType]
	if !ok {
		return nil, fmt.Errorf("no token budget for dimension %s", result.ScanType)
	}

	prompt := buildPrompt(result, maxTokens)

	resp, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(e.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(explainTemperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("explanation request for %s failed: %w", result.ScanType, err)
	}

	// Extract text from response
	var responseText string
	for _, block := range resp.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	explanation, err := parseExplanation(responseText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse explanation for %s: %w", result.ScanType, err)
	}
	return explanation, nil
}

// buildPrompt renders the dimension result into a prompt, truncated to
// roughly four characters per response token.
func buildPrompt(result *schema.DimensionScanResult, maxTokens int64) string {
	persona := personaByDimension[result.ScanType]

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n\n", persona)
	fmt.Fprintf(&b, "A static analysis pass scored the %s dimension of a repository at %d/100.\n", result.ScanType, result.Score)
	fmt.Fprintf(&b, "It analyzed %d files and raised %d findings.\n\n", result.FilesAnalyzed, len(result.Findings))

	top := schema.TopFindings(result.Findings, maxFindingsInPrompt)
	if len(top) > 0 {
		b.WriteString("Top findings by severity:\n")
		for _, f := range top {
			fmt.Fprintf(&b, "- [%s] %s in %s: %s\n", f.Severity, f.RuleID, f.FilePath, f.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("Explain the state of this dimension for a human reader. Do not invent findings, ")
	b.WriteString("do not suggest score changes, and keep the summary to a few sentences.\n\n")
	b.WriteString("Respond with JSON only:\n")
	b.WriteString("{\n")
	b.WriteString("  \"summary\": \"what these findings mean\",\n")
	b.WriteString("  \"top_recommendation\": \"the single most impactful next step\"\n")
	b.WriteString("}\n")

	prompt := b.String()

	// Rough heuristic: ~4 chars per token keeps the request proportional
	// to the allowed response size
	limit := int(maxTokens) * 4
	if len(prompt) > limit {
		prompt = prompt[:limit]
	}
	return prompt
}

// parseExplanation extracts the JSON payload from model output, which
// may be wrapped in prose or a code fence.
func parseExplanation(text string) (*schema.DimensionExplanation, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var explanation schema.DimensionExplanation
	if err := json.Unmarshal([]byte(text[start:end+1]), &explanation); err != nil {
		return nil, err
	}
	if explanation.Summary == "" {
		return nil, fmt.Errorf("model output is missing a summary")
	}
	return &explanation, nil
}
