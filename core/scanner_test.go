package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revflo/revaudit/internal/iocache"
	"github.com/revflo/revaudit/schema"
)

func TestScannerRegistryDefaults(t *testing.T) {
	reg := NewScannerRegistry()

	scanners := reg.List()
	require.Len(t, scanners, len(schema.AllDimensions))
	for i, dim := range schema.AllDimensions {
		assert.Equal(t, dim, scanners[i].Name(), "canonical dimension order")
	}

	s, ok := reg.Get(schema.SecurityDim)
	require.True(t, ok)
	assert.IsType(t, &SecurityScanner{}, s)

	_, ok = reg.Get(schema.Dimension("astrology"))
	assert.False(t, ok)
}

func TestScannerRegistryRegisterReplaces(t *testing.T) {
	reg := NewScannerRegistry()
	custom := &SecurityScanner{}
	reg.Register(custom)

	s, ok := reg.Get(schema.SecurityDim)
	require.True(t, ok)
	assert.Same(t, custom, s)
	assert.Len(t, reg.List(), len(schema.AllDimensions), "replacement doesn't grow the registry")
}

func TestMetricSourcePrefersCacheStore(t *testing.T) {
	cached := &schema.FileMetrics{FilePath: "app.py", LOC: 42}
	store := &iocache.MockMetricStore{}
	store.On("Get", "repo1", "sha1", "app.py").Return(cached, true, nil)

	src := NewMetricSource(store, "repo1", "sha1", map[string]schema.FileMetrics{
		"app.py": {FilePath: "app.py", LOC: 99},
	})

	m, fromCache, ok := src.Lookup("app.py")
	require.True(t, ok)
	assert.True(t, fromCache)
	assert.Equal(t, 42, m.LOC, "store entry wins over the computed one")
}

func TestMetricSourceFallsBackToComputed(t *testing.T) {
	store := &iocache.MockMetricStore{}
	store.On("Get", "repo1", "sha1", "app.py").Return(nil, false, nil)

	src := NewMetricSource(store, "repo1", "sha1", map[string]schema.FileMetrics{
		"app.py": {FilePath: "app.py", LOC: 99},
	})

	m, fromCache, ok := src.Lookup("app.py")
	require.True(t, ok)
	assert.False(t, fromCache)
	assert.Equal(t, 99, m.LOC)
}

func TestMetricSourceStoreErrorFallsBack(t *testing.T) {
	store := &iocache.MockMetricStore{}
	store.On("Get", "repo1", "sha1", "app.py").Return(nil, false, errors.New("db locked"))

	src := NewMetricSource(store, "repo1", "sha1", map[string]schema.FileMetrics{
		"app.py": {FilePath: "app.py", LOC: 7},
	})

	m, fromCache, ok := src.Lookup("app.py")
	require.True(t, ok)
	assert.False(t, fromCache)
	assert.Equal(t, 7, m.LOC)
}

func TestMetricSourceMiss(t *testing.T) {
	src := NewMetricSource(nil, "repo1", "sha1", nil)

	_, _, ok := src.Lookup("ghost.py")
	assert.False(t, ok)
}

func TestNewFindingID(t *testing.T) {
	f := newFinding("QUAL001", schema.MediumSeverity, schema.CodeQualityDim, "src/app.py",
		"Large file", "src/app.py is big", map[string]any{"loc": 400})

	assert.Equal(t, "QUAL001-src/app.py", f.ID)
	assert.Equal(t, "QUAL001", f.RuleID)
	assert.Equal(t, string(schema.CodeQualityDim), f.Category)
	assert.Equal(t, "src/app.py", f.FilePath)
}
