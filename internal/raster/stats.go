package raster

import (
	"math"
	"os"

	"github.com/forest-guardian/canopy-cli/internal/cache"
)

// BandStats holds the value range of one raster band, used to stretch raw
// values into the displayable 8-bit range.
type BandStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ComputeBandStats scans a band buffer for its minimum and maximum,
// ignoring NaN pixels.
func ComputeBandStats(buffer []float64) BandStats {
	stats := BandStats{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, value := range buffer {
		if math.IsNaN(value) {
			continue
		}
		if value < stats.Min {
			stats.Min = value
		}
		if value > stats.Max {
			stats.Max = value
		}
	}
	if math.IsInf(stats.Min, 1) {
		return BandStats{}
	}
	return stats
}

// statsFor returns per-band statistics, served from the file cache when the
// raster has not changed since they were computed. clipID identifies the
// boundary the raster was clipped with, so clips of the same source with
// different boundaries never share an entry. It is empty for unclipped rasters.
func statsFor(path, clipID string, buffers [][]float64) []BandStats {
	statsCache := cache.NewFileCache[[]BandStats]("stats")

	var key string
	if info, err := os.Stat(path); err == nil {
		key = statsCache.GenerateKey(path, info.ModTime().Unix(), info.Size(), len(buffers), clipID)
		if cached, ok := statsCache.Get(key); ok && len(cached) == len(buffers) {
			return cached
		}
	}

	stats := make([]BandStats, len(buffers))
	for i, buffer := range buffers {
		stats[i] = ComputeBandStats(buffer)
	}

	if key != "" {
		// Best effort, rendering works without the cache.
		_ = statsCache.Set(key, stats)
	}
	return stats
}
