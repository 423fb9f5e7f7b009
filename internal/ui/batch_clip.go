package ui

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/forest-guardian/canopy-cli/internal/notification"
	"github.com/forest-guardian/canopy-cli/internal/raster"
)

// BatchClip handles the UI for clipping a folder of rasters
func BatchClip() {
	PrintWarning("Every '.tif' file in the input folder will be clipped against the same boundary.")

	inputDir := ReadString("Enter the folder with the raster images: ")
	boundaryPath := ReadString("Enter the boundary path: ")
	outputDir := ReadString("Enter the output folder: ")

	outputs, err := raster.BatchClip(inputDir, boundaryPath, outputDir, runtime.NumCPU())
	if err != nil {
		PrintError(fmt.Sprintf("Error clipping rasters: %s", err.Error()))
		notification.SendDiscordErrorNotification(fmt.Sprintf("Canopy CLI\n\nError clipping rasters: %s", err.Error()))
		return
	}

	PrintSuccess(fmt.Sprintf("Clipped %d rasters into %s:\n%s", len(outputs), outputDir, strings.Join(outputs, "\n")))
	notification.SendDiscordSuccessNotification(fmt.Sprintf("Canopy CLI\n\nClipped %d rasters into %s", len(outputs), outputDir))
}
