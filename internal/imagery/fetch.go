package imagery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/forest-guardian/canopy-cli/internal/shape"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// Fetch downloads one GeoTIFF per interval step between startDate and
// endDate into dir, skipping files that already exist. Downloads run
// concurrently and the returned paths are sorted by date.
func Fetch(ctx context.Context, boundary *shape.Boundary, name, dir string, startDate, endDate time.Time, intervalDays int) ([]string, error) {
	if intervalDays <= 0 {
		intervalDays = 1
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s is before start date %s", endDate.Format("2006-01-02"), startDate.Format("2006-01-02"))
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %v", err)
	}

	var dates []time.Time
	for currentDate := startDate; !currentDate.After(endDate); currentDate = currentDate.AddDate(0, 0, intervalDays) {
		dates = append(dates, currentDate)
	}

	progressBar := progressbar.Default(int64(len(dates)), "Fetching imagery")

	var mu sync.Mutex
	var paths []string

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)

	for _, date := range dates {
		date := date
		group.Go(func() error {
			defer progressBar.Add(1)

			fileName := filepath.Join(dir, fmt.Sprintf("%s_%s.tif", name, date.Format("2006-01-02")))
			if _, err := os.Stat(fileName); err == nil {
				mu.Lock()
				paths = append(paths, fileName)
				mu.Unlock()
				return nil
			}

			windowEnd := date.Add(time.Hour*23 + time.Minute*59 + time.Second*59)
			imageBytes, err := requestImage(groupCtx, date, windowEnd, boundary)
			if err != nil {
				if errors.Is(err, errImageNotFound) {
					return nil
				}
				return fmt.Errorf("error requesting image for %s: %w", date.Format("2006-01-02"), err)
			}

			if err := os.WriteFile(fileName, imageBytes, 0644); err != nil {
				return fmt.Errorf("failed to write image file: %v", err)
			}

			mu.Lock()
			paths = append(paths, fileName)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	fmt.Println()

	sort.Strings(paths)
	return paths, nil
}
