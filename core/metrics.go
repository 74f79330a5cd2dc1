// Package core implements the audit pipeline: per-file metric
// computation, churn estimation, the incremental-scan decision, the
// rule engines, the dimension scanners, and the orchestrator that ties
// them together.
package core

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/schema"
)

// Metric computation constants.
const (
	// proxyIndentThreshold is the leading-space count that marks a line
	// as deeply nested for the proxy complexity estimate.
	proxyIndentThreshold = 8

	// proxyLineLength is the line length that adds half a point to the
	// proxy complexity estimate.
	proxyLineLength = 120

	// indentUnit is the number of spaces treated as one indent level.
	indentUnit = 4
)

// errBinaryFile explains why a file with NUL bytes is skipped.
var errBinaryFile = errors.New("content contains NUL bytes")

// languageByExtension maps file extensions to language names.
var languageByExtension = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".jsx":  "javascript",
	".ts":   "javascript",
	".tsx":  "javascript",
	".java": "java",
	".c":    "cpp",
	".cpp":  "cpp",
	".cc":   "cpp",
	".h":    "cpp",
	".hpp":  "cpp",
	".go":   "go",
}

// LanguageForPath returns the language name for a file path, or
// "unknown" for unrecognized extensions.
func LanguageForPath(path string) string {
	if lang, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	return "unknown"
}

// IsCodeFile reports whether the path has a recognized code extension.
func IsCodeFile(path string) bool {
	_, ok := languageByExtension[strings.ToLower(filepath.Ext(path))]
	return ok
}

// AnalyzeFile computes static metrics for a single file. relPath is the
// repo-relative path recorded in the result; repoRoot anchors the read.
// Unreadable or binary files produce a nil result and a warning, never
// an aborted run.
func AnalyzeFile(repoRoot, relPath string) *schema.FileMetrics {
	content, err := os.ReadFile(filepath.Join(repoRoot, relPath))
	if err != nil {
		contract.LogWarn("Skipping unreadable file "+relPath, err)
		return nil
	}
	if bytes.IndexByte(content, 0) >= 0 {
		contract.LogWarn("Skipping binary file "+relPath, errBinaryFile)
		return nil
	}

	lines := strings.Split(string(content), "\n")

	loc := 0
	maxIndent := 0
	proxyComplexity := 0.0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			loc++
		}

		indent := leadingSpaces(line)
		if depth := indent / indentUnit; depth > maxIndent {
			maxIndent = depth
		}

		if trimmed != "" {
			if indent >= proxyIndentThreshold {
				proxyComplexity += 1.0
			}
			if len(line) > proxyLineLength {
				proxyComplexity += 0.5
			}
		}
	}

	lang := LanguageForPath(relPath)

	complexity := math.Trunc(proxyComplexity)
	if lang == "go" {
		// Go sources get real cyclomatic complexity from the AST; the
		// indentation proxy remains the fallback for unparseable files
		if cx, err := goCyclomaticComplexity(relPath, content); err == nil {
			complexity = cx
		}
	}

	return &schema.FileMetrics{
		FilePath:    relPath,
		LOC:         loc,
		Complexity:  complexity,
		IndentDepth: maxIndent,
		Language:    lang,
	}
}

// leadingSpaces counts leading whitespace with tabs expanded to four
// spaces. Counting stops at the first non-whitespace rune.
func leadingSpaces(line string) int {
	count := 0
	for _, r := range line {
		switch r {
		case ' ':
			count++
		case '\t':
			count += indentUnit
		default:
			return count
		}
	}
	return count
}
