package ui

import (
	"context"
	"fmt"

	"github.com/forest-guardian/canopy-cli/internal/imagery"
	"github.com/forest-guardian/canopy-cli/internal/notification"
	"github.com/forest-guardian/canopy-cli/internal/shape"
)

// FetchImagery handles the UI for downloading Sentinel-2 imagery
func FetchImagery() {
	PrintWarning("- Copernicus credentials must be set in the environment.\n- One image is downloaded per interval step, existing files are kept.")

	boundaryPath := ReadString("Enter the boundary path: ")
	name := ReadString("Enter the plot name (used in file names): ")
	dir := ReadString("Enter the output folder: ")

	startDate, err := ReadDate("Enter the start date (YYYY-MM-DD): ")
	if err != nil {
		PrintError(err.Error())
		return
	}
	endDate, err := ReadDate("Enter the end date (YYYY-MM-DD): ")
	if err != nil {
		PrintError(err.Error())
		return
	}
	intervalDays, err := ReadInt("Enter the interval in days between images: ", 1, 365)
	if err != nil {
		PrintError(err.Error())
		return
	}

	boundary, err := shape.LoadBoundary(boundaryPath)
	if err != nil {
		PrintError(fmt.Sprintf("Error loading boundary: %s", err.Error()))
		return
	}

	if lat, lon, err := boundary.Centroid(); err == nil {
		fmt.Printf("%sPlot centroid: %.5f, %.5f%s\n", ColorGreen, lat, lon, ColorReset)
	}

	paths, err := imagery.Fetch(context.Background(), boundary, name, dir, startDate, endDate, intervalDays)
	if err != nil {
		PrintError(fmt.Sprintf("Error fetching imagery: %s", err.Error()))
		notification.SendDiscordErrorNotification(fmt.Sprintf("Canopy CLI\n\nError fetching imagery: %s", err.Error()))
		return
	}

	PrintSuccess(fmt.Sprintf("Fetched %d images into %s", len(paths), dir))
	notification.SendDiscordSuccessNotification(fmt.Sprintf("Canopy CLI\n\nFetched %d images into %s", len(paths), dir))
}
