package main

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/forest-guardian/canopy-cli/internal/chart"
	"github.com/forest-guardian/canopy-cli/internal/imagery"
	"github.com/forest-guardian/canopy-cli/internal/notification"
	"github.com/forest-guardian/canopy-cli/internal/raster"
	"github.com/forest-guardian/canopy-cli/internal/shape"
	"github.com/forest-guardian/canopy-cli/internal/timeline"
	"github.com/forest-guardian/canopy-cli/internal/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func printBanner() {
	// Print the banner with go-figure
	figure1 := figure.NewFigure("Canopy", "isometric1", true)
	figure2 := figure.NewFigure("CLI", "isometric1", true)
	bannercolor.Cyan(figure1.String())
	bannercolor.Cyan(figure2.String())
	fmt.Println()
}

func runMenu() {
	defer func() {
		if r := recover(); r != nil {
			// Get the function, file, and line where panic occurred
			pc, file, line, ok := runtime.Caller(3)
			var location string
			if ok {
				fn := runtime.FuncForPC(pc)
				location = fmt.Sprintf("%s:%d in %s", file, line, fn.Name())
			} else {
				location = "Unknown location"
			}

			fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)
			fmt.Printf("\033[31mLocation: %s\033[0m\n", location)
			fmt.Printf("\033[31mPlease check the input and try again.\033[0m\n")
			fmt.Printf("\033[31mExiting...\033[0m\n")

			stack := debug.Stack()
			errMessage := fmt.Sprintf("Canopy CLI panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, stack)
			err := notification.SendDiscordErrorNotification(errMessage)
			if err != nil {
				fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", err.Error())
			}
		}
	}()

	printBanner()
	ui.ShowMenu()
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "canopy",
		Short: "Clip satellite rasters to plot boundaries and chart plant coverage over time",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(".env"); err != nil {
				// Optional, env vars may already be exported.
				godotenv.Load("../.env")
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			runMenu()
		},
	}

	root.AddCommand(newClipCommand())
	root.AddCommand(newBatchClipCommand())
	root.AddCommand(newPlotCommand())
	root.AddCommand(newFetchCommand())
	root.AddCommand(newProjectionsCommand())
	return root
}

func newClipCommand() *cobra.Command {
	var imagePath, boundaryPath, outputPath string
	var outline bool

	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Clip a raster to a boundary and export PNG and GeoTIFF",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := raster.NewLoader(imagePath, boundaryPath)
			if err != nil {
				return err
			}
			defer loader.Close()

			pngPath := outputPath
			if !strings.HasSuffix(pngPath, ".png") {
				pngPath += ".png"
			}
			if err := loader.SavePNG(pngPath); err != nil {
				return err
			}

			tiffPath := strings.TrimSuffix(pngPath, ".png") + ".tif"
			if err := loader.SaveGTiff(tiffPath); err != nil {
				return err
			}

			if outline && boundaryPath != "" {
				annotatedPath := strings.TrimSuffix(pngPath, ".png") + "_outline.png"
				if err := loader.SaveAnnotatedPNG(annotatedPath); err != nil {
					return err
				}
			}

			fmt.Printf("PNG saved to %s\nGeoTIFF saved to %s\n", pngPath, tiffPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&imagePath, "input", "i", "", "input raster image")
	cmd.Flags().StringVarP(&boundaryPath, "shape", "s", "", "boundary vector file (optional)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output image path")
	cmd.Flags().BoolVar(&outline, "outline", false, "draw the boundary outline on the PNG")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func newBatchClipCommand() *cobra.Command {
	var inputDir, boundaryPath, outputDir string
	var workers int

	cmd := &cobra.Command{
		Use:   "batch-clip",
		Short: "Clip every raster in a folder against one boundary",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputs, err := raster.BatchClip(inputDir, boundaryPath, outputDir, workers)
			if err != nil {
				return err
			}
			fmt.Printf("Clipped %d rasters into %s\n", len(outputs), outputDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", "", "folder with raster images")
	cmd.Flags().StringVarP(&boundaryPath, "shape", "s", "", "boundary vector file")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output folder")
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "number of concurrent workers")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("shape")
	cmd.MarkFlagRequired("output")
	return cmd
}

func newPlotCommand() *cobra.Command {
	var csvPath, outputPath string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the coverage timeline chart with thumbnails",
		RunE: func(cmd *cobra.Command, args []string) error {
			observations, err := timeline.LoadCSV(csvPath)
			if err != nil {
				return err
			}
			annotated := timeline.Annotated(observations)
			if err := chart.Render(observations, annotated, outputPath); err != nil {
				return err
			}
			fmt.Printf("Chart saved to %s (%d observations, %d thumbnails)\n", outputPath, len(observations), len(annotated))
			return nil
		},
	}

	cmd.Flags().StringVarP(&csvPath, "input", "i", "", "timeline csv file (image;date;coverage)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output chart path (.png or .pdf)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	return cmd
}

func newFetchCommand() *cobra.Command {
	var boundaryPath, name, dir, start, end string
	var intervalDays int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download Sentinel-2 imagery for a boundary and date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %v", start, err)
			}
			endDate, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fmt.Errorf("invalid end date %q: %v", end, err)
			}

			boundary, err := shape.LoadBoundary(boundaryPath)
			if err != nil {
				return err
			}

			paths, err := imagery.Fetch(context.Background(), boundary, name, dir, startDate, endDate, intervalDays)
			if err != nil {
				return err
			}
			fmt.Printf("Fetched %d images into %s\n", len(paths), dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&boundaryPath, "shape", "s", "", "boundary vector file")
	cmd.Flags().StringVarP(&name, "name", "n", "plot", "plot name used in file names")
	cmd.Flags().StringVarP(&dir, "output", "o", "", "output folder")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&intervalDays, "interval", 1, "days between images")
	cmd.MarkFlagRequired("shape")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newProjectionsCommand() *cobra.Command {
	var imagePath, boundaryPath string

	cmd := &cobra.Command{
		Use:   "projections",
		Short: "Print the raster and boundary spatial references",
		RunE: func(cmd *cobra.Command, args []string) error {
			rasterCRS, boundaryCRS, err := raster.CheckProjections(imagePath, boundaryPath)
			if err != nil {
				return err
			}
			fmt.Printf("Raster CRS:\n%s\n\nBoundary CRS:\n%s\n", rasterCRS, boundaryCRS)
			return nil
		},
	}

	cmd.Flags().StringVarP(&imagePath, "input", "i", "", "input raster image")
	cmd.Flags().StringVarP(&boundaryPath, "shape", "s", "", "boundary vector file")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("shape")
	return cmd
}
