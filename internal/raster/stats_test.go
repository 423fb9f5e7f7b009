package raster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsForDistinguishesClips(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	path := filepath.Join(t.TempDir(), "plot.tif")
	require.NoError(t, os.WriteFile(path, []byte("raster"), 0644))

	full := statsFor(path, "", [][]float64{{0, 1000}})
	require.Equal(t, []BandStats{{Min: 0, Max: 1000}}, full)

	// Same source file, different boundary: the wide range above must not
	// leak into the clipped render's stretch.
	clipped := statsFor(path, "boundary.geojson_[10 10]_[20 20]", [][]float64{{5, 300}})
	assert.Equal(t, []BandStats{{Min: 5, Max: 300}}, clipped)

	// Same key as the first call, buffers are ignored on a cache hit.
	again := statsFor(path, "", [][]float64{{99, 99}})
	assert.Equal(t, full, again)
}
