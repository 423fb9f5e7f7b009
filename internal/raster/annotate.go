package raster

import (
	"fmt"

	"github.com/fogleman/gg"
)

// SaveAnnotatedPNG writes the rendered image with the boundary outline drawn
// on top. The boundary coordinates must be in the raster's spatial reference.
func (l *Loader) SaveAnnotatedPNG(outputPath string) error {
	if l.boundary == nil {
		return fmt.Errorf("no boundary loaded for %s", l.path)
	}

	geoTransform, err := l.dataset.GeoTransform()
	if err != nil {
		return fmt.Errorf("failed to read geotransform: %v", err)
	}

	dc := gg.NewContextForImage(l.img)
	dc.SetRGB(1, 0, 0)
	dc.SetLineWidth(2)

	for _, polygon := range l.boundary.Shape {
		for _, ring := range polygon {
			for i, point := range ring {
				// Convert geographic coordinates (lon, lat) to pixel coordinates
				x := (point.X() - geoTransform[0]) / geoTransform[1]
				y := (point.Y() - geoTransform[3]) / geoTransform[5]
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
		}
	}
	dc.Stroke()

	if err := dc.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to save annotated image: %v", err)
	}
	return nil
}
