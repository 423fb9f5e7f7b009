package timeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timeline.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "image;date;coverage\n"+
		"thumbs/a.png;2021-03-01;0.25\n"+
		"thumbs/b.png;2021-03-15;0.5\n")

	observations, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, observations, 2)

	assert.Equal(t, "thumbs/a.png", observations[0].Image)
	assert.Equal(t, time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC), observations[0].Date.Time)
	assert.Equal(t, 0.25, observations[0].Coverage)
	assert.Equal(t, 0.5, observations[1].Coverage)
}

func TestLoadCSVInvalidDate(t *testing.T) {
	path := writeCSV(t, "image;date;coverage\nthumbs/a.png;01/03/2021;0.25\n")

	_, err := LoadCSV(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestLoadCSVInvalidCoverage(t *testing.T) {
	path := writeCSV(t, "image;date;coverage\nthumbs/a.png;2021-03-01;high\n")

	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadCSVEmptyFile(t *testing.T) {
	path := writeCSV(t, "")

	_, err := LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func observationsWithCoverages(coverages ...float64) []Observation {
	observations := make([]Observation, len(coverages))
	base := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, coverage := range coverages {
		observations[i] = Observation{
			Image:    "thumb.png",
			Date:     Date{base.AddDate(0, 0, i)},
			Coverage: coverage,
		}
	}
	return observations
}

func TestAnnotated(t *testing.T) {
	observations := observationsWithCoverages(0.1, 0.1, 0.5, 0.5)
	assert.Equal(t, []int{0, 2, 3}, Annotated(observations))
}

func TestAnnotatedLastRowAlwaysIncluded(t *testing.T) {
	observations := observationsWithCoverages(0.1, 0.1, 0.1)
	assert.Equal(t, []int{0, 2}, Annotated(observations))
}

func TestAnnotatedSingleRow(t *testing.T) {
	observations := observationsWithCoverages(0.7)
	assert.Equal(t, []int{0}, Annotated(observations))
}

func TestAnnotatedEveryRowChanges(t *testing.T) {
	observations := observationsWithCoverages(0.1, 0.2, 0.3)
	assert.Equal(t, []int{0, 1, 2}, Annotated(observations))
}
