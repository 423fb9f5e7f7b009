package raster

import (
	"image"
	"image/color"
	"math"
)

// renderImage converts raw band buffers into an 8-bit image. A single band
// becomes grayscale, three or more bands become RGB with bands 1,2,3 mapped
// to red, green and blue. Extra bands are ignored.
func renderImage(buffers [][]float64, width, height int, stats []BandStats) image.Image {
	if len(buffers) < 3 {
		gray := image.NewGray(image.Rect(0, 0, width, height))
		for i := range buffers[0] {
			gray.Pix[i] = toByte(buffers[0][i], stats[0])
		}
		return gray
	}

	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			rgba.SetRGBA(x, y, color.RGBA{
				R: toByte(buffers[0][i], stats[0]),
				G: toByte(buffers[1][i], stats[1]),
				B: toByte(buffers[2][i], stats[2]),
				A: 255,
			})
		}
	}
	return rgba
}

// toByte maps a raw band value into 0-255. Values already within the 8-bit
// range pass through unscaled; anything else is stretched linearly between
// the band minimum and maximum.
func toByte(value float64, stats BandStats) uint8 {
	if math.IsNaN(value) {
		return 0
	}

	if stats.Min >= 0 && stats.Max <= 255 {
		return clampByte(value)
	}

	if stats.Max <= stats.Min {
		return 0
	}
	scaled := (value - stats.Min) / (stats.Max - stats.Min) * 255
	return clampByte(scaled)
}

func clampByte(value float64) uint8 {
	if value < 0 {
		return 0
	}
	if value > 255 {
		return 255
	}
	return uint8(value)
}
