package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
)

// BatchClip clips every raster in inputDir against the boundary and writes a
// PNG and a GeoTIFF per raster into outputDir. Rasters are processed
// concurrently on a worker pool.
func BatchClip(inputDir, boundaryPath, outputDir string, workers int) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %v", err)
	}

	var rasters []string
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, ".tif") || strings.HasSuffix(name, ".tiff") {
			rasters = append(rasters, filepath.Join(inputDir, entry.Name()))
		}
	}
	if len(rasters) == 0 {
		return nil, fmt.Errorf("no tiff images found in %s", inputDir)
	}

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %v", err)
	}

	if workers <= 0 {
		workers = 4
	}
	wp := workerpool.New(workers)
	progressBar := progressbar.Default(int64(len(rasters)), "Clipping rasters")

	var mu sync.Mutex
	var outputs []string
	var failures []string

	for _, rasterPath := range rasters {
		rasterPath := rasterPath
		wp.Submit(func() {
			defer progressBar.Add(1)

			base := strings.TrimSuffix(filepath.Base(rasterPath), filepath.Ext(rasterPath))
			err := clipOne(rasterPath, boundaryPath, outputDir, base)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s: %v", rasterPath, err))
				return
			}
			outputs = append(outputs, filepath.Join(outputDir, base+".png"))
		})
	}
	wp.StopWait()
	fmt.Println()

	if len(failures) == len(rasters) {
		return nil, fmt.Errorf("all rasters failed to clip: %s", strings.Join(failures, "; "))
	}
	if len(failures) > 0 {
		fmt.Printf("Clipped with %d failures: %s\n", len(failures), strings.Join(failures, "; "))
	}

	sort.Strings(outputs)
	return outputs, nil
}

func clipOne(rasterPath, boundaryPath, outputDir, base string) error {
	loader, err := NewLoader(rasterPath, boundaryPath)
	if err != nil {
		return err
	}
	defer loader.Close()

	if err := loader.SavePNG(filepath.Join(outputDir, base+".png")); err != nil {
		return err
	}
	return loader.SaveGTiff(filepath.Join(outputDir, base+".tif"))
}
