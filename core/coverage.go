package core

import (
	"path/filepath"
	"strings"
)

// testNamePatterns mark a file as a test by naming convention.
var testNamePatterns = []string{"test_", "_test.", ".test.", "spec_", "_spec.", ".spec."}

// testDirNames mark any file under these directories as a test.
var testDirNames = map[string]bool{
	"test":      true,
	"tests":     true,
	"__test__":  true,
	"__tests__": true,
	"spec":      true,
	"specs":     true,
}

// IsTestFile reports whether a repo-relative path looks like a test file,
// either by name pattern or by residing in a test directory.
func IsTestFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, pattern := range testNamePatterns {
		if strings.Contains(base, pattern) {
			return true
		}
	}

	dir := filepath.ToSlash(filepath.Dir(path))
	for _, part := range strings.Split(dir, "/") {
		if testDirNames[strings.ToLower(part)] {
			return true
		}
	}
	return false
}

// HasTest reports whether any of the given test files plausibly covers
// the source path. It checks stem permutations first, then falls back
// to a loose stem-substring match.
func HasTest(sourcePath string, testFiles []string) bool {
	stem := fileStem(sourcePath)
	if stem == "" {
		return false
	}
	lowerStem := strings.ToLower(stem)

	// Exact naming permutations, e.g. server.go -> server_test,
	// test_server, server.spec
	expected := map[string]bool{
		"test_" + lowerStem: true,
		lowerStem + "_test": true,
		lowerStem + ".test": true,
		"test" + lowerStem:  true,
		lowerStem + "test":  true,
		lowerStem + "_spec": true,
		lowerStem + ".spec": true,
	}

	for _, tf := range testFiles {
		if expected[strings.ToLower(fileStem(tf))] {
			return true
		}
	}

	// Loose match: a test file whose stem contains the source stem
	for _, tf := range testFiles {
		if strings.Contains(strings.ToLower(fileStem(tf)), lowerStem) {
			return true
		}
	}
	return false
}

// fileStem returns the base name without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
