package imagery

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/forest-guardian/canopy-cli/internal/shape"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePixels(t *testing.T) {
	assert.Equal(t, 1, calculatePixels(0, 10))
	assert.Equal(t, 1, calculatePixels(0.00001, 10))
	assert.Equal(t, 111, calculatePixels(0.01, 10))
}

func boundaryWithExtent(dx, dy float64) *shape.Boundary {
	return &shape.Boundary{
		Shape: orb.MultiPolygon{
			{{{0, 0}, {dx, 0}, {dx, dy}, {0, dy}, {0, 0}}},
		},
		FromGeoJSON: true,
	}
}

func TestBuildRequestBodyClampsDimensions(t *testing.T) {
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	// One degree of extent is far more than 2500 pixels at 10m resolution.
	body, err := buildRequestBody(start, end, boundaryWithExtent(1, 1))
	require.NoError(t, err)

	var payload struct {
		Output struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"output"`
		Evalscript string `json:"evalscript"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))

	assert.Equal(t, 2500, payload.Output.Width)
	assert.Equal(t, 2500, payload.Output.Height)
	assert.Contains(t, payload.Evalscript, "B04")
}

func TestBuildRequestBodyTimeRange(t *testing.T) {
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour * 23)

	body, err := buildRequestBody(start, end, boundaryWithExtent(0.001, 0.001))
	require.NoError(t, err)

	var payload struct {
		Input struct {
			Data []struct {
				DataFilter struct {
					TimeRange struct {
						From string `json:"from"`
						To   string `json:"to"`
					} `json:"timeRange"`
				} `json:"dataFilter"`
			} `json:"data"`
		} `json:"input"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Len(t, payload.Input.Data, 1)
	assert.Equal(t, "2021-03-01T00:00:00Z", payload.Input.Data[0].DataFilter.TimeRange.From)
	assert.Equal(t, "2021-03-01T23:00:00Z", payload.Input.Data[0].DataFilter.TimeRange.To)
}

func TestRequestWithRetriesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := requestWithRetries(t.Context(), server.Client(), server.URL, []byte(`{}`))
	require.ErrorIs(t, err, errImageNotFound)

	// The skip must survive the wrapping done by callers.
	wrapped := fmt.Errorf("error requesting image for 2021-03-01: %w", err)
	assert.ErrorIs(t, wrapped, errImageNotFound)
}

func TestRequestImageRequiresCredentials(t *testing.T) {
	t.Setenv("COPERNICUS_CLIENT_ID", "")
	t.Setenv("COPERNICUS_CLIENT_SECRET", "")
	t.Setenv("COPERNICUS_TOKEN_URL", "")

	_, err := requestImage(t.Context(), time.Now(), time.Now(), boundaryWithExtent(0.001, 0.001))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing required environment variables")
}
