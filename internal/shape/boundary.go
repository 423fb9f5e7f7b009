package shape

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Boundary is the unified clip shape for a plot, built from every valid
// polygon in the source vector file.
type Boundary struct {
	Shape      orb.MultiPolygon
	SourcePath string
	// GeoJSON sources carry WGS84 coordinates and can be rewritten as a
	// unified cutline. Other OGR formats are handed to the warp as-is so
	// GDAL picks up their spatial reference.
	FromGeoJSON bool
}

// LoadBoundary reads the vector file and unifies its valid polygons.
func LoadBoundary(path string) (*Boundary, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("boundary file not found: %v", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".geojson" || ext == ".json" {
		return loadGeoJSONBoundary(path)
	}
	return loadOGRBoundary(path)
}

func loadGeoJSONBoundary(path string) (*Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary file: %v", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	geometries := make([]orb.Geometry, 0, len(fc.Features))
	for _, feature := range fc.Features {
		geometries = append(geometries, feature.Geometry)
	}

	unified, err := UnifyShapes(geometries)
	if err != nil {
		return nil, err
	}

	return &Boundary{Shape: unified, SourcePath: path, FromGeoJSON: true}, nil
}

func loadOGRBoundary(path string) (*Boundary, error) {
	godal.RegisterInternalDrivers()
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open boundary file: %v", err)
	}
	defer ds.Close()

	layers := ds.Layers()
	if len(layers) == 0 {
		return nil, fmt.Errorf("no layers found in %s", path)
	}

	var geometries []orb.Geometry
	layer := layers[0]
	for {
		feat := layer.NextFeature()
		if feat == nil {
			break
		}

		geom := feat.Geometry()
		gj, err := geom.GeoJSON()
		feat.Close()
		if err != nil {
			continue
		}

		parsed, err := geojson.UnmarshalGeometry([]byte(gj))
		if err != nil {
			continue
		}
		geometries = append(geometries, parsed.Geometry())
	}

	unified, err := UnifyShapes(geometries)
	if err != nil {
		return nil, err
	}

	return &Boundary{Shape: unified, SourcePath: path, FromGeoJSON: false}, nil
}

// UnifyShapes filters out degenerate geometries and merges the remaining
// polygons into a single multipolygon.
func UnifyShapes(geometries []orb.Geometry) (orb.MultiPolygon, error) {
	var unified orb.MultiPolygon
	for _, geometry := range geometries {
		switch shape := geometry.(type) {
		case orb.Polygon:
			if isValidShape(shape) {
				unified = append(unified, shape)
			}
		case orb.MultiPolygon:
			for _, polygon := range shape {
				if isValidShape(polygon) {
					unified = append(unified, polygon)
				}
			}
		}
	}

	if len(unified) == 0 {
		return nil, fmt.Errorf("no valid polygon found in boundary")
	}
	return unified, nil
}

func isValidShape(polygon orb.Polygon) bool {
	_, area := planar.CentroidArea(polygon)
	return area > 0
}

// Centroid returns the latitude and longitude of the unified shape.
func (b *Boundary) Centroid() (float64, float64, error) {
	centroid, area := planar.CentroidArea(b.Shape)
	if area <= 0 {
		return 0, 0, fmt.Errorf("error getting centroid")
	}
	return centroid.Y(), centroid.X(), nil
}

// WriteCutline saves the unified shape as a GeoJSON file usable as a warp
// cutline. Non-GeoJSON sources are passed through untouched so the warp can
// read the spatial reference from the original file.
func (b *Boundary) WriteCutline(dir string) (string, error) {
	if !b.FromGeoJSON {
		return b.SourcePath, nil
	}

	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(b.Shape))

	data, err := fc.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal cutline: %w", err)
	}

	cutlinePath := filepath.Join(dir, "cutline.geojson")
	if err := os.WriteFile(cutlinePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write cutline file: %v", err)
	}
	return cutlinePath, nil
}
