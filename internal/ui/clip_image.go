package ui

import (
	"fmt"
	"strings"

	"github.com/forest-guardian/canopy-cli/internal/notification"
	"github.com/forest-guardian/canopy-cli/internal/raster"
)

// ClipImage handles the UI for clipping a single raster to a boundary
func ClipImage() {
	PrintWarning("- The boundary should be a '.geojson' file (or any OGR-readable vector file).\n- Leave the boundary empty to convert the raster without clipping.")

	imagePath := ReadString("Enter the raster image path: ")
	boundaryPath := ReadString("Enter the boundary path (or leave empty): ")
	outputPath := ReadString("Enter the output image path (.png): ")
	if !strings.HasSuffix(outputPath, ".png") {
		outputPath += ".png"
	}

	loader, err := raster.NewLoader(imagePath, boundaryPath)
	if err != nil {
		PrintError(fmt.Sprintf("Error loading raster: %s", err.Error()))
		return
	}
	defer loader.Close()

	if err := loader.SavePNG(outputPath); err != nil {
		PrintError(fmt.Sprintf("Error saving PNG: %s", err.Error()))
		return
	}

	tiffPath := strings.TrimSuffix(outputPath, ".png") + ".tif"
	if err := loader.SaveGTiff(tiffPath); err != nil {
		PrintError(fmt.Sprintf("Error saving GeoTIFF: %s", err.Error()))
		return
	}

	if boundaryPath != "" {
		outline := ReadString("Draw the boundary outline on the PNG? (y/N): ")
		if strings.EqualFold(outline, "y") {
			annotatedPath := strings.TrimSuffix(outputPath, ".png") + "_outline.png"
			if err := loader.SaveAnnotatedPNG(annotatedPath); err != nil {
				PrintError(fmt.Sprintf("Error saving annotated PNG: %s", err.Error()))
				return
			}
		}
	}

	PrintSuccess(fmt.Sprintf("Clipped image saved!\n PNG located at: %s\n GeoTIFF located at: %s", outputPath, tiffPath))
	notification.SendDiscordSuccessNotification(fmt.Sprintf("Canopy CLI\n\nClipped image saved!\nPNG located at: %s\nGeoTIFF located at: %s", outputPath, tiffPath))
}

// CheckProjections prints the raster and boundary spatial references
func CheckProjections() {
	imagePath := ReadString("Enter the raster image path: ")
	boundaryPath := ReadString("Enter the boundary path: ")

	rasterCRS, boundaryCRS, err := raster.CheckProjections(imagePath, boundaryPath)
	if err != nil {
		PrintError(fmt.Sprintf("Error checking projections: %s", err.Error()))
		return
	}

	fmt.Printf("\n%sRaster CRS:%s\n%s\n", ColorGreen, ColorReset, rasterCRS)
	fmt.Printf("\n%sBoundary CRS:%s\n%s\n", ColorGreen, ColorReset, boundaryCRS)
}
