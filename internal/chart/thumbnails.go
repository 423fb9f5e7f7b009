package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/forest-guardian/canopy-cli/internal/timeline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type annotationBox struct {
	x, y float64
	img  image.Image
}

// Thumbnails overlays observation thumbnails next to their data points, each
// connected to the point by a dashed gray line.
type Thumbnails struct {
	boxes []annotationBox

	// Offset between the data point and the thumbnail box.
	Offset vg.Point
	// Scale applied to the thumbnail pixel size.
	Scale     float64
	LineStyle draw.LineStyle
}

// NewThumbnails decodes the PNG thumbnail of every annotated observation.
func NewThumbnails(observations []timeline.Observation, annotated []int) (*Thumbnails, error) {
	thumbnails := &Thumbnails{
		Offset: vg.Point{X: vg.Points(45), Y: vg.Points(45)},
		Scale:  1.5,
		LineStyle: draw.LineStyle{
			Color:  color.Gray{Y: 128},
			Width:  vg.Points(1),
			Dashes: []vg.Length{vg.Points(4), vg.Points(4)},
		},
	}

	for _, index := range annotated {
		observation := observations[index]
		img, err := decodeThumbnail(observation.Image)
		if err != nil {
			return nil, err
		}
		thumbnails.boxes = append(thumbnails.boxes, annotationBox{
			x:   float64(observation.Date.Unix()),
			y:   observation.Coverage,
			img: img,
		})
	}

	return thumbnails, nil
}

func decodeThumbnail(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open thumbnail %s: %v", path, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode thumbnail %s: %v", path, err)
	}
	return img, nil
}

// Plot implements plot.Plotter.
func (t *Thumbnails) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for _, box := range t.boxes {
		x := trX(box.x)
		y := trY(box.y)

		w := vg.Points(float64(box.img.Bounds().Dx()) * t.Scale)
		h := vg.Points(float64(box.img.Bounds().Dy()) * t.Scale)

		bx := x + t.Offset.X
		by := y + t.Offset.Y
		// Keep the box inside the canvas.
		if bx+w > c.Max.X {
			bx = c.Max.X - w
		}
		if by+h > c.Max.Y {
			by = c.Max.Y - h
		}
		if bx < c.Min.X {
			bx = c.Min.X
		}
		if by < c.Min.Y {
			by = c.Min.Y
		}

		c.StrokeLine2(t.LineStyle, x, y, bx+w/2, by)
		c.DrawImage(vg.Rectangle{
			Min: vg.Point{X: bx, Y: by},
			Max: vg.Point{X: bx + w, Y: by + h},
		}, box.img)
	}
}
