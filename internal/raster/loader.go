package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/canopy-cli/internal/shape"
)

// Loader opens a raster file, optionally clips it to a plot boundary and
// renders the band data as a displayable 8-bit image.
type Loader struct {
	path     string
	dataset  *godal.Dataset
	boundary *shape.Boundary
	img      image.Image
	tmpDir   string
}

func openDataset(path string) (*godal.Dataset, error) {
	godal.RegisterInternalDrivers()
	return godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("gdal error %d: %s", code, msg)
	}))
}

// NewLoader opens the raster at imagePath. When boundaryPath is not empty the
// raster is warped against the unified boundary cutline, cropped to it and
// masked with zero outside the shape.
func NewLoader(imagePath, boundaryPath string) (*Loader, error) {
	dataset, err := openDataset(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %v", imagePath, err)
	}

	loader := &Loader{path: imagePath, dataset: dataset}

	if boundaryPath != "" {
		boundary, err := shape.LoadBoundary(boundaryPath)
		if err != nil {
			loader.Close()
			return nil, err
		}
		loader.boundary = boundary

		if err := loader.clip(); err != nil {
			loader.Close()
			return nil, err
		}
	}

	img, err := loader.render()
	if err != nil {
		loader.Close()
		return nil, err
	}
	loader.img = img

	return loader, nil
}

// clip warps the dataset against the boundary cutline. The warp reprojects
// the cutline into the raster's spatial reference before masking.
func (l *Loader) clip() error {
	tmpDir, err := os.MkdirTemp("", "canopy-clip")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %v", err)
	}
	l.tmpDir = tmpDir

	cutlinePath, err := l.boundary.WriteCutline(tmpDir)
	if err != nil {
		return err
	}

	clippedPath := filepath.Join(tmpDir, "clipped.tif")
	switches := []string{
		"-of", "GTiff",
		"-cutline", cutlinePath,
		"-crop_to_cutline",
		"-dstnodata", "0",
	}

	clipped, err := l.dataset.Warp(clippedPath, switches)
	if err != nil {
		return fmt.Errorf("failed to clip raster with boundary: %w", err)
	}

	structure := clipped.Structure()
	if structure.SizeX == 0 || structure.SizeY == 0 {
		clipped.Close()
		return fmt.Errorf("boundary does not intersect raster %s", l.path)
	}

	l.dataset.Close()
	l.dataset = clipped
	return nil
}

func (l *Loader) render() (image.Image, error) {
	structure := l.dataset.Structure()
	width, height := structure.SizeX, structure.SizeY
	bands := l.dataset.Bands()
	if len(bands) == 0 {
		return nil, fmt.Errorf("raster %s has no bands", l.path)
	}

	buffers := make([][]float64, len(bands))
	for i, band := range bands {
		data := make([]float64, width*height)
		if err := band.Read(0, 0, data, width, height); err != nil {
			return nil, fmt.Errorf("failed to read band %d: %v", i+1, err)
		}
		buffers[i] = data
	}

	clipID := ""
	if l.boundary != nil {
		bound := l.boundary.Shape.Bound()
		clipID = fmt.Sprintf("%s_%v_%v", l.boundary.SourcePath, bound.Min, bound.Max)
	}

	stats := statsFor(l.path, clipID, buffers)
	return renderImage(buffers, width, height, stats), nil
}

// Image returns the rendered 8-bit image.
func (l *Loader) Image() image.Image {
	return l.img
}

// Dataset returns the underlying (possibly clipped) dataset.
func (l *Loader) Dataset() *godal.Dataset {
	return l.dataset
}

// SavePNG writes the rendered image as PNG.
func (l *Loader) SavePNG(outputPath string) error {
	outputFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create PNG file: %v", err)
	}
	defer outputFile.Close()

	if err := png.Encode(outputFile, l.img); err != nil {
		return fmt.Errorf("failed to encode PNG file: %v", err)
	}
	return nil
}

// SaveGTiff writes the (possibly clipped) dataset as a GeoTIFF, keeping the
// geotransform and spatial reference of the source.
func (l *Loader) SaveGTiff(outputPath string) error {
	copied, err := l.dataset.Translate(outputPath, []string{"-of", "GTiff"})
	if err != nil {
		return fmt.Errorf("failed to save GeoTIFF: %w", err)
	}
	copied.Close()
	return nil
}

// Close releases the dataset and any temporary clip files.
func (l *Loader) Close() {
	if l.dataset != nil {
		l.dataset.Close()
		l.dataset = nil
	}
	if l.tmpDir != "" {
		os.RemoveAll(l.tmpDir)
		l.tmpDir = ""
	}
}

// CheckProjections reports the spatial reference of the raster and of the
// boundary so mismatches can be inspected before clipping.
func CheckProjections(imagePath, boundaryPath string) (string, string, error) {
	dataset, err := openDataset(imagePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to open raster %s: %v", imagePath, err)
	}
	defer dataset.Close()

	rasterWKT := ""
	if sr := dataset.SpatialRef(); sr != nil {
		rasterWKT, err = sr.WKT()
		if err != nil {
			return "", "", fmt.Errorf("failed to export raster spatial reference: %v", err)
		}
	}

	boundary, err := shape.LoadBoundary(boundaryPath)
	if err != nil {
		return "", "", err
	}

	boundaryCRS := "EPSG:4326 (GeoJSON)"
	if !boundary.FromGeoJSON {
		boundaryCRS, err = vectorWKT(boundaryPath)
		if err != nil {
			return "", "", err
		}
	}

	return rasterWKT, boundaryCRS, nil
}

func vectorWKT(path string) (string, error) {
	godal.RegisterInternalDrivers()
	ds, err := godal.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open boundary file: %v", err)
	}
	defer ds.Close()

	layers := ds.Layers()
	if len(layers) == 0 {
		return "", fmt.Errorf("no layers found in %s", path)
	}

	feat := layers[0].NextFeature()
	if feat == nil {
		return "", fmt.Errorf("no features found in %s", path)
	}
	defer feat.Close()

	sr := feat.Geometry().SpatialRef()
	if sr == nil {
		return "unknown", nil
	}
	wkt, err := sr.WKT()
	if err != nil {
		return "", fmt.Errorf("failed to export boundary spatial reference: %v", err)
	}
	return wkt, nil
}
