package chart

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/forest-guardian/canopy-cli/internal/timeline"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var markerGreen = color.RGBA{R: 144, G: 238, B: 144, A: 255} // lightgreen

// Render draws the coverage-over-time chart with thumbnail annotations at
// the rows listed in annotated and saves it to outputPath (.png, .pdf or
// .svg by extension).
func Render(observations []timeline.Observation, annotated []int, outputPath string) error {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".png", ".pdf", ".svg":
	default:
		return fmt.Errorf("unsupported chart format %q, use .png, .pdf or .svg", filepath.Ext(outputPath))
	}

	points := make(plotter.XYs, len(observations))
	for i, observation := range observations {
		points[i].X = float64(observation.Date.Unix())
		points[i].Y = observation.Coverage
	}

	p := plot.New()
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.X.Tick.Label.Rotation = 0.785 // 45 degrees
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YTop
	p.Y.Label.Text = "Percentage of plant coverage"
	p.Y.Min, p.Y.Max = -0.1, 1.1

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.Gray{Y: 153}
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Color = color.Gray{Y: 153}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(grid)

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("failed to create line plotter: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("failed to create scatter plotter: %w", err)
	}
	scatter.GlyphStyle.Color = markerGreen
	scatter.GlyphStyle.Radius = vg.Points(6)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}

	p.Add(line, scatter)

	thumbnails, err := NewThumbnails(observations, annotated)
	if err != nil {
		return err
	}
	p.Add(thumbnails)

	if err := p.Save(16*vg.Inch, 8*vg.Inch, outputPath); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}
