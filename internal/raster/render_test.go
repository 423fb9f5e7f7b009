package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBandStats(t *testing.T) {
	stats := ComputeBandStats([]float64{3, math.NaN(), -1, 250, 7})
	assert.Equal(t, -1.0, stats.Min)
	assert.Equal(t, 250.0, stats.Max)
}

func TestComputeBandStatsAllNaN(t *testing.T) {
	stats := ComputeBandStats([]float64{math.NaN(), math.NaN()})
	assert.Equal(t, BandStats{}, stats)
}

func TestToByteNaN(t *testing.T) {
	assert.Equal(t, uint8(0), toByte(math.NaN(), BandStats{Min: 0, Max: 255}))
}

func TestToBytePassThrough(t *testing.T) {
	stats := BandStats{Min: 0, Max: 255}
	assert.Equal(t, uint8(0), toByte(0, stats))
	assert.Equal(t, uint8(100), toByte(100.7, stats))
	assert.Equal(t, uint8(255), toByte(255, stats))
}

func TestToByteStretchesWideRanges(t *testing.T) {
	stats := BandStats{Min: 0, Max: 1000}
	assert.Equal(t, uint8(0), toByte(0, stats))
	assert.Equal(t, uint8(127), toByte(500, stats))
	assert.Equal(t, uint8(255), toByte(1000, stats))
}

func TestToByteFlatBand(t *testing.T) {
	assert.Equal(t, uint8(0), toByte(300, BandStats{Min: 300, Max: 300}))
}

func TestRenderImageSingleBand(t *testing.T) {
	buffers := [][]float64{{0, 64, 128, 255}}
	stats := []BandStats{{Min: 0, Max: 255}}

	img := renderImage(buffers, 2, 2, stats)
	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, []uint8{0, 64, 128, 255}, gray.Pix)
}

func TestRenderImageTwoBandsUsesFirst(t *testing.T) {
	buffers := [][]float64{{10, 20}, {200, 200}}
	stats := []BandStats{{Min: 0, Max: 255}, {Min: 0, Max: 255}}

	img := renderImage(buffers, 2, 1, stats)
	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, []uint8{10, 20}, gray.Pix)
}

func TestRenderImageRGB(t *testing.T) {
	buffers := [][]float64{
		{10, 20},
		{30, 40},
		{50, math.NaN()},
	}
	stats := []BandStats{{Max: 255}, {Max: 255}, {Max: 255}}

	img := renderImage(buffers, 2, 1, stats)
	rgba, ok := img.(*image.RGBA)
	require.True(t, ok)

	assert.Equal(t, color.RGBA{R: 10, G: 30, B: 50, A: 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 20, G: 40, B: 0, A: 255}, rgba.RGBAAt(1, 0))
}

func TestRenderImageIgnoresExtraBands(t *testing.T) {
	buffers := [][]float64{{1}, {2}, {3}, {99}}
	stats := []BandStats{{Max: 255}, {Max: 255}, {Max: 255}, {Max: 255}}

	img := renderImage(buffers, 1, 1, stats)
	rgba, ok := img.(*image.RGBA)
	require.True(t, ok)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, rgba.RGBAAt(0, 0))
}
