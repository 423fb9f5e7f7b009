package timeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"
)

// Date wraps time.Time so gocsv can parse the YYYY-MM-DD column.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalCSV(value string) error {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return fmt.Errorf("invalid date %q: %v", value, err)
	}
	d.Time = parsed
	return nil
}

func (d Date) MarshalCSV() (string, error) {
	return d.Format("2006-01-02"), nil
}

// Observation is one row of the coverage timeline: a thumbnail image, the
// acquisition date and the measured coverage fraction.
type Observation struct {
	Image    string  `csv:"image"`
	Date     Date    `csv:"date"`
	Coverage float64 `csv:"coverage"`
}

// LoadCSV reads the semicolon-delimited coverage timeline.
func LoadCSV(path string) ([]Observation, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open timeline file: %v", err)
	}
	defer file.Close()

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		reader := csv.NewReader(in)
		reader.Comma = ';'
		return reader
	})

	var observations []Observation
	if err := gocsv.UnmarshalFile(file, &observations); err != nil {
		return nil, fmt.Errorf("failed to parse timeline csv: %w", err)
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("empty csv file given")
	}

	return observations, nil
}

// Annotated returns the indexes that get a thumbnail on the chart: every row
// whose coverage differs from the previous one, plus the final row.
func Annotated(observations []Observation) []int {
	var annotated []int
	for i, observation := range observations {
		changed := i == 0 || observations[i-1].Coverage != observation.Coverage
		last := i == len(observations)-1
		if changed || last {
			annotated = append(annotated, i)
		}
	}
	return annotated
}
