package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestFileCacheRoundTrip(t *testing.T) {
	fc := NewFileCacheAt[sample](t.TempDir())

	key := fc.GenerateKey("plot", 42)
	require.NoError(t, fc.Set(key, sample{Name: "ndvi", Value: 0.42}))

	got, ok := fc.Get(key)
	require.True(t, ok)
	assert.Equal(t, sample{Name: "ndvi", Value: 0.42}, got)
}

func TestFileCacheMiss(t *testing.T) {
	fc := NewFileCacheAt[sample](t.TempDir())

	_, ok := fc.Get("missing")
	assert.False(t, ok)
}

func TestFileCacheRejectsCorruptedEntry(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCacheAt[sample](dir)

	key := fc.GenerateKey("plot")
	require.NoError(t, fc.Set(key, sample{Name: "ndvi", Value: 0.42}))

	// Tamper with the stored entry, the checksum should no longer match.
	cacheFile := filepath.Join(dir, key+".json")
	data, err := os.ReadFile(cacheFile)
	require.NoError(t, err)
	tampered := []byte(string(data))
	copy(tampered, []byte(`{"data":{"name":"xxxx"`))
	require.NoError(t, os.WriteFile(cacheFile, tampered, 0644))

	_, ok := fc.Get(key)
	assert.False(t, ok)
}

func TestGenerateKeyIsStable(t *testing.T) {
	fc := NewFileCacheAt[sample](t.TempDir())

	assert.Equal(t, fc.GenerateKey("a", 1), fc.GenerateKey("a", 1))
	assert.NotEqual(t, fc.GenerateKey("a", 1), fc.GenerateKey("a", 2))
}
