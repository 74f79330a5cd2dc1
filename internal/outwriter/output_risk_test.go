package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revflo/revaudit/schema"
)

func sampleRiskReport() *schema.RiskReport {
	return &schema.RiskReport{
		Score: 80,
		Items: []schema.RiskItem{
			{
				Title:             "Hotspot: src/app.py",
				WhyItMatters:      "Complex code that changes frequently concentrates defects.",
				AffectedAreas:     []string{"src/app.py"},
				Likelihood:        "high",
				RecommendedAction: "Refactor into smaller units and add regression tests.",
				Severity:          schema.CriticalSeverity,
			},
			{
				Title:             "No Tests",
				WhyItMatters:      "Untested code of this size fails silently.",
				AffectedAreas:     []string{"src/billing.py"},
				Likelihood:        "medium",
				RecommendedAction: "Add a test file covering the primary paths.",
				Severity:          schema.MediumSeverity,
			},
		},
	}
}

func TestWriteRiskTable(t *testing.T) {
	var buf bytes.Buffer

	err := writeRiskTable(&buf, sampleRiskReport(), auditTestConfig(schema.TextOut), time.Second)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Hotspot: src/app.py")
	assert.Contains(t, out, "No Tests")
	assert.Contains(t, out, "Recommended actions")
	assert.Contains(t, out, "1. Refactor into smaller units")
	assert.Contains(t, out, "Risk score: 80/100 (Fair), 2 items")
}

func TestWriteRiskTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	report := &schema.RiskReport{Score: 100}

	err := writeRiskTable(&buf, report, auditTestConfig(schema.TextOut), time.Second)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "No risks detected. Score: 100/100 (Healthy)")
}

func TestWriteRiskCSV(t *testing.T) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	err := writeRiskCSV(writer, sampleRiskReport())
	require.NoError(t, err)
	writer.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, "critical", records[1][1])
	assert.Equal(t, "src/billing.py", records[2][4])
}

func TestWriteRiskJSON(t *testing.T) {
	var buf bytes.Buffer

	err := writeRiskJSON(&buf, sampleRiskReport())
	require.NoError(t, err)

	var decoded struct {
		Score int    `json:"score"`
		Label string `json:"label"`
		Items []struct {
			Rank     int    `json:"rank"`
			Label    string `json:"label"`
			Title    string `json:"title"`
			Severity string `json:"severity"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 80, decoded.Score)
	assert.Equal(t, "Fair", decoded.Label)
	require.Len(t, decoded.Items, 2)
	assert.Equal(t, 1, decoded.Items[0].Rank)
	assert.Equal(t, "Critical", decoded.Items[0].Label)
	assert.Equal(t, "critical", decoded.Items[0].Severity)
}

func TestPrintRiskReportToFile(t *testing.T) {
	cfg := auditTestConfig(schema.CSVOut)
	cfg.OutputFile = t.TempDir() + "/risk.csv"

	err := PrintRiskReport(sampleRiskReport(), cfg, time.Second)
	require.NoError(t, err)

	assert.FileExists(t, cfg.OutputFile)
}
