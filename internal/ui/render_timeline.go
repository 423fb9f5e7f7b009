package ui

import (
	"fmt"
	"strings"

	"github.com/forest-guardian/canopy-cli/internal/chart"
	"github.com/forest-guardian/canopy-cli/internal/notification"
	"github.com/forest-guardian/canopy-cli/internal/timeline"
)

// RenderTimeline handles the UI for the coverage-over-time chart
func RenderTimeline() {
	PrintWarning("- The input should be a ';' delimited '.csv' file with an image;date;coverage header.\n- The image column should point to '.png' thumbnails.")

	csvPath := ReadString("Enter the timeline csv path: ")
	outputPath := ReadString("Enter the output chart path (.png or .pdf): ")

	observations, err := timeline.LoadCSV(csvPath)
	if err != nil {
		PrintError(fmt.Sprintf("Error loading timeline: %s", err.Error()))
		if !strings.Contains(err.Error(), "empty csv file given") {
			notification.SendDiscordErrorNotification(fmt.Sprintf("Canopy CLI\n\nError loading timeline: %s", err.Error()))
		}
		return
	}

	annotated := timeline.Annotated(observations)
	if err := chart.Render(observations, annotated, outputPath); err != nil {
		PrintError(fmt.Sprintf("Error rendering chart: %s", err.Error()))
		notification.SendDiscordErrorNotification(fmt.Sprintf("Canopy CLI\n\nError rendering chart: %s", err.Error()))
		return
	}

	PrintSuccess(fmt.Sprintf("Successful chart render!\n %d observations, %d thumbnails\n Chart located at: %s", len(observations), len(annotated), outputPath))
	notification.SendDiscordSuccessNotification(fmt.Sprintf("Canopy CLI\n\nSuccessful chart render!\nChart located at: %s", outputPath))
}
