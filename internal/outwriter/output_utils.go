package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to
// it, and cleaning up. It accepts a writer function that takes an
// io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder with consistent indentation.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// severityLabel picks the colored or plain severity label per config.
func severityLabel(s schema.Severity, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(s)
	}
	return contract.GetPlainLabel(s)
}

// displayDimension turns a dimension identifier into a heading, e.g.
// "code_quality" becomes "Code Quality".
func displayDimension(dim schema.Dimension) string {
	switch dim {
	case schema.CodeQualityDim:
		return "Code Quality"
	case schema.MaintainabilityDim:
		return "Maintainability"
	case schema.TestingConfidenceDim:
		return "Testing Confidence"
	case schema.ArchitectureDim:
		return "Architecture"
	case schema.PerformanceDim:
		return "Performance"
	case schema.SecurityDim:
		return "Security"
	default:
		return string(dim)
	}
}
