package contract

import (
	"testing"

	"github.com/revflo/revaudit/schema"
	"github.com/stretchr/testify/assert"
)

// TestShouldIgnore covers prefix, suffix, glob and substring patterns.
func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		excludes []string
		expected bool
	}{
		{"no excludes", "src/main.go", nil, false},
		{"prefix match", "vendor/lib/a.go", []string{"vendor/"}, true},
		{"prefix no match", "src/vendor.go", []string{"vendor/"}, false},
		{"suffix match", "bundle.min.js", []string{".min.js"}, true},
		{"glob match", "assets/app.min.js", []string{"*.min.js"}, true},
		{"substring match", "some/node_modules/x.js", []string{"node_modules"}, true},
		{"empty pattern skipped", "a.go", []string{"", " "}, false},
		{"multiple patterns", "build/out.js", []string{"dist/", "build/"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldIgnore(tt.path, tt.excludes))
		})
	}
}

// TestGetPlainLabel verifies severity label mapping.
func TestGetPlainLabel(t *testing.T) {
	assert.Equal(t, "Critical", GetPlainLabel(schema.CriticalSeverity))
	assert.Equal(t, "High", GetPlainLabel(schema.HighSeverity))
	assert.Equal(t, "Medium", GetPlainLabel(schema.MediumSeverity))
	assert.Equal(t, "Low", GetPlainLabel(schema.LowSeverity))
}

// TestGetScoreLabel verifies health score bands.
func TestGetScoreLabel(t *testing.T) {
	assert.Equal(t, "Healthy", GetScoreLabel(100))
	assert.Equal(t, "Healthy", GetScoreLabel(90))
	assert.Equal(t, "Fair", GetScoreLabel(89))
	assert.Equal(t, "At Risk", GetScoreLabel(69))
	assert.Equal(t, "Unhealthy", GetScoreLabel(0))
}

// TestTruncatePath verifies ellipsis-prefix truncation.
func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.go", TruncatePath("short.go", 20))
	assert.Equal(t, "...d/deep/file.go", TruncatePath("some/nested/deep/file.go", 17))
	// Width too small to truncate safely leaves the path untouched.
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3))
}

// TestParseBoolString verifies accepted and rejected values.
func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "true", "1", "YES", "True"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "false", "0", "NO"} {
		v, err := ParseBoolString(s)
		assert.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
